package consistency

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/types"
)

const (
	// factPreviewRunes bounds how much of each chunk the fact check
	// prompt carries
	factPreviewRunes = 1000
	// logicWindowRunes bounds the tail and head excerpts compared for
	// adjacent chunks
	logicWindowRunes = 500
)

// checkFacts asks the gateway to compare factual statements across all
// chunks: numbers, dates, names, and event descriptions. A gateway
// failure leaves the category empty rather than failing the run.
func (c *Checker) checkFacts(ctx context.Context, chunks []types.Chunk) *types.CheckResult {
	result := &types.CheckResult{
		Findings:        []types.Finding{},
		CriticalIssues:  []types.Finding{},
		Recommendations: []string{},
	}

	raw, err := c.client.Analyze(ctx, llm.Request{
		Instructions: "You are a fact consistency expert.",
		Content:      buildFactCheckPrompt(chunks),
		Tier:         c.cfg.Tier,
	})
	if err != nil {
		return result
	}

	reply, ok := parseCheckReply(raw)
	if !ok {
		return result
	}
	for _, issue := range reply.Inconsistencies {
		result.Findings = append(result.Findings, issue.toFinding(types.KindFact))
	}
	for _, issue := range reply.CriticalIssues {
		result.CriticalIssues = append(result.CriticalIssues, issue.toFinding(types.KindFact))
	}

	if len(result.Findings) > 0 {
		result.Recommendations = append(result.Recommendations,
			"Verify the figures and facts cited in the text against their sources")
	}
	return result
}

func buildFactCheckPrompt(chunks []types.Chunk) string {
	var sb strings.Builder
	sb.WriteString("Check the following text chunks for factual consistency, in particular:\n\n")
	sb.WriteString("1. consistency of figures and numbers\n")
	sb.WriteString("2. consistency of dates and times\n")
	sb.WriteString("3. consistency of person, place, and organization names\n")
	sb.WriteString("4. consistency of event descriptions\n")

	for _, chunk := range chunks {
		fmt.Fprintf(&sb, "\n--- chunk %d ---\n", chunk.ID)
		sb.WriteString(truncateRunes(chunk.Content, factPreviewRunes))
		sb.WriteString("\n")
	}

	sb.WriteString("\nReturn JSON with an \"inconsistencies\" list and a \"critical_issues\" list; each entry has type, severity, description, location, suggestion, and confidence fields.")
	return sb.String()
}

// logicReply is the structured shape expected from the pairwise logic
// check prompt
type logicReply struct {
	Inconsistent bool     `json:"inconsistent"`
	Description  string   `json:"description"`
	Suggestion   string   `json:"suggestion"`
	Confidence   *float64 `json:"confidence"`
}

// checkLogic inspects the seam between each pair of adjacent chunks.
// Pairs are checked in order; a failed pair is skipped.
func (c *Checker) checkLogic(ctx context.Context, chunks []types.Chunk) *types.CheckResult {
	result := &types.CheckResult{
		Findings:        []types.Finding{},
		CriticalIssues:  []types.Finding{},
		Recommendations: []string{},
	}

	for i := 0; i < len(chunks)-1; i++ {
		if ctx.Err() != nil {
			break
		}
		reply, ok := c.checkLogicPair(ctx, chunks[i], chunks[i+1])
		if !ok || !reply.Inconsistent {
			continue
		}

		description := reply.Description
		if description == "" {
			description = "unclear logical connection"
		}
		suggestion := reply.Suggestion
		if suggestion == "" {
			suggestion = "improve the logical transition"
		}
		confidence := 0.7
		if reply.Confidence != nil {
			confidence = *reply.Confidence
		}
		result.Findings = append(result.Findings, types.Finding{
			ChunkID:     types.GlobalChunkID,
			Kind:        types.KindLogic,
			Severity:    types.SeverityMedium,
			Description: description,
			Location:    fmt.Sprintf("between chunk %d and chunk %d", chunks[i].ID, chunks[i+1].ID),
			Suggestion:  suggestion,
			Confidence:  confidence,
		})
	}

	if len(result.Findings) > 0 {
		result.Recommendations = append(result.Recommendations,
			"Use transition words or sentences to improve the logical flow between sections")
	}
	return result
}

func (c *Checker) checkLogicPair(ctx context.Context, first, second types.Chunk) (logicReply, bool) {
	var sb strings.Builder
	sb.WriteString("Check the logical connection between these two text chunks:\n\n")
	sb.WriteString("End of the first chunk:\n")
	sb.WriteString(tailRunes(first.Content, logicWindowRunes))
	sb.WriteString("\n\nStart of the second chunk:\n")
	sb.WriteString(truncateRunes(second.Content, logicWindowRunes))
	sb.WriteString("\n\nJudge:\n")
	sb.WriteString("1. Is the logical connection between the two parts clear?\n")
	sb.WriteString("2. Are there logical jumps or contradictions?\n")
	sb.WriteString("3. If improvement is needed, how should the transition change?\n\n")
	sb.WriteString(`Return JSON: {"inconsistent": true/false, "description": "...", "suggestion": "...", "confidence": 0.0-1.0}`)

	raw, err := c.client.Analyze(ctx, llm.Request{
		Instructions: "You are a logic review expert.",
		Content:      sb.String(),
		Tier:         c.cfg.Tier,
	})
	if err != nil {
		return logicReply{}, false
	}

	var reply logicReply
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &reply); err != nil {
		return logicReply{}, false
	}
	return reply, true
}

// Sentences carrying an obligation, in Chinese and English
var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:应当|必须|需要|要求|规定)[^。！？]*[。！？]`),
	regexp.MustCompile(`(?i)\b(?:must|shall|is required to)\b[^.!?]*[.!?]`),
}

// extractRequirements pulls obligation sentences out of one chunk
func extractRequirements(text string) []string {
	var requirements []string
	for _, pattern := range requirementPatterns {
		requirements = append(requirements, pattern.FindAllString(text, -1)...)
	}
	return requirements
}

// checkRequirements extracts obligation sentences per chunk and asks
// the gateway whether any of them conflict. Intended for contract-like
// scenarios.
func (c *Checker) checkRequirements(ctx context.Context, chunks []types.Chunk) *types.CheckResult {
	result := &types.CheckResult{
		Findings:        []types.Finding{},
		CriticalIssues:  []types.Finding{},
		Recommendations: []string{},
	}

	type taggedRequirement struct {
		chunkID int
		text    string
	}
	var requirements []taggedRequirement
	for _, chunk := range chunks {
		for _, req := range extractRequirements(chunk.Content) {
			requirements = append(requirements, taggedRequirement{chunkID: chunk.ID, text: req})
		}
	}
	if len(requirements) < 2 {
		return result
	}

	var sb strings.Builder
	sb.WriteString("Check whether the following requirements conflict with each other:\n\n")
	for _, req := range requirements {
		fmt.Fprintf(&sb, "[chunk %d] %s\n", req.chunkID, req.text)
	}
	sb.WriteString("\nReturn JSON with an \"inconsistencies\" list; each entry has type, severity, description, location, suggestion, and confidence fields.")

	raw, err := c.client.Analyze(ctx, llm.Request{
		Instructions: "You are a requirements analysis expert.",
		Content:      sb.String(),
		Tier:         c.cfg.Tier,
	})
	if err != nil {
		return result
	}
	reply, ok := parseCheckReply(raw)
	if !ok {
		return result
	}
	for _, issue := range reply.Inconsistencies {
		finding := issue.toFinding(types.KindRequirement)
		result.Findings = append(result.Findings, finding)
		if finding.Severity == types.SeverityCritical {
			result.CriticalIssues = append(result.CriticalIssues, finding)
		}
	}

	if len(result.Findings) > 0 {
		result.Recommendations = append(result.Recommendations,
			"Review all stated requirements to make sure none of them conflict")
	}
	return result
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func tailRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[len(runes)-limit:])
}
