// Package consistency runs the cross-chunk checks: terminology usage,
// factual agreement, logical flow between adjacent chunks, and, for
// scenarios that need it, requirement conflicts.
package consistency

import (
	"context"
	"encoding/json"

	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/types"
)

// Config controls which checks run
type Config struct {
	Enabled    bool
	Categories []types.CheckCategory
	Tier       llm.ModelTier
}

// DefaultConfig enables the three baseline checks. Requirement
// conflict checking is opted into per scenario.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Categories: []types.CheckCategory{types.CheckTerminology, types.CheckFacts, types.CheckLogic},
	}
}

// Checker performs cross-chunk consistency checking
type Checker struct {
	client llm.Client
	cfg    Config
}

// NewChecker creates a checker over the given gateway client
func NewChecker(client llm.Client, cfg Config) *Checker {
	return &Checker{client: client, cfg: cfg}
}

// checkOrder fixes the aggregation order of category results
var checkOrder = []types.CheckCategory{
	types.CheckTerminology,
	types.CheckFacts,
	types.CheckLogic,
	types.CheckRequirements,
}

// Check runs the configured categories over the chunk sequence and
// aggregates them into one report. Checking is neutral (score 100, no
// findings) when disabled or when fewer than two chunks exist.
// Gateway failures degrade the affected category to an empty result;
// only context cancellation aborts the whole check.
func (c *Checker) Check(ctx context.Context, chunks []types.Chunk) (*types.ConsistencyReport, error) {
	if !c.cfg.Enabled || len(chunks) < 2 {
		return types.NeutralConsistencyReport(), nil
	}

	enabled := map[types.CheckCategory]bool{}
	for _, cat := range c.cfg.Categories {
		enabled[cat] = true
	}

	results := map[types.CheckCategory]*types.CheckResult{}
	for _, cat := range checkOrder {
		if !enabled[cat] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch cat {
		case types.CheckTerminology:
			results[cat] = checkTerminology(chunks)
		case types.CheckFacts:
			results[cat] = c.checkFacts(ctx, chunks)
		case types.CheckLogic:
			results[cat] = c.checkLogic(ctx, chunks)
		case types.CheckRequirements:
			results[cat] = c.checkRequirements(ctx, chunks)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &types.ConsistencyReport{
		Findings:        []types.Finding{},
		CriticalIssues:  []types.Finding{},
		Recommendations: []string{},
		Checks:          results,
	}
	for _, cat := range checkOrder {
		result, ok := results[cat]
		if !ok {
			continue
		}
		report.Findings = append(report.Findings, result.Findings...)
		report.CriticalIssues = append(report.CriticalIssues, result.CriticalIssues...)
		report.Recommendations = append(report.Recommendations, result.Recommendations...)
	}
	report.Score = scoreResults(results)
	return report, nil
}

// replyIssue is one issue in a structured check reply
type replyIssue struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Suggestion  string   `json:"suggestion"`
	Confidence  *float64 `json:"confidence"`
}

// checkReply is the structured shape expected from the fact and
// requirement check prompts
type checkReply struct {
	Inconsistencies []replyIssue `json:"inconsistencies"`
	CriticalIssues  []replyIssue `json:"critical_issues"`
}

func parseCheckReply(raw string) (checkReply, bool) {
	var reply checkReply
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &reply); err != nil {
		return checkReply{}, false
	}
	return reply, true
}

// toFinding converts a reply issue into a global finding, filling
// unset fields with the category's defaults
func (r replyIssue) toFinding(fallback types.FindingKind) types.Finding {
	severity := types.Severity(r.Severity)
	if !severity.Valid() {
		severity = types.SeverityMedium
	}
	kind := types.FindingKind(r.Type)
	if kind == "" {
		kind = fallback
	}
	confidence := 1.0
	if r.Confidence != nil {
		confidence = *r.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
	}
	return types.Finding{
		ChunkID:     types.GlobalChunkID,
		Kind:        kind,
		Severity:    severity,
		Description: r.Description,
		Location:    r.Location,
		Suggestion:  r.Suggestion,
		Confidence:  confidence,
	}
}
