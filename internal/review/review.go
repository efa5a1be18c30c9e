// Package review provides the high-level orchestration for a document
// review run: segmentation, concurrent chunk analysis, cross-chunk
// consistency checking, and aggregation into a single result.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/doc-reviewer/internal/config"
	"github.com/jonathan/doc-reviewer/internal/consistency"
	"github.com/jonathan/doc-reviewer/internal/db"
	"github.com/jonathan/doc-reviewer/internal/dispatch"
	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/observability"
	"github.com/jonathan/doc-reviewer/internal/points"
	"github.com/jonathan/doc-reviewer/internal/splitter"
	"github.com/jonathan/doc-reviewer/internal/types"
)

// Run step identifiers reported through the progress callback
const (
	StepSegment     = "segment"
	StepAnalyze     = "chunk_analysis"
	StepConsistency = "consistency_check"
	StepAggregate   = "aggregate"
)

// ProgressEvent represents a progress update during a review run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when review progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running a review
type RunOptions struct {
	Config      *config.Config
	Points      *points.Manager
	Source      string
	Context     string
	Verbose     bool
	DatabaseURL string
	OnProgress  ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

// Run orchestrates the full review: segments the text, analyzes every
// chunk under the configured concurrency cap, runs the cross-chunk
// consistency checks over the complete chunk set, then aggregates
// everything into a finalized result. Per-chunk and per-category
// gateway failures degrade into findings; only segmentation errors and
// context cancellation fail the run.
func Run(ctx context.Context, client llm.Client, text string, opts RunOptions) (*types.ReviewResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	manager := opts.Points
	if manager == nil {
		manager = points.Default()
	}
	scenario := cfg.Review.Scenario

	printer := observability.NewPrinter(os.Stdout)

	result := types.NewReviewResult(scenario)
	result.Metadata.TextLength = utf8.RuneCountInString(text)
	result.Metadata.SourceFile = opts.Source

	splitCfg, err := cfg.SplitterConfig()
	if err != nil {
		return nil, err
	}
	chunks, err := splitter.Segment(text, splitCfg)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	stats := splitter.Statistics(chunks, splitCfg.Strategy)
	result.Metadata.ChunkCount = len(chunks)
	result.Metadata.ChunkStatistics = stats

	if opts.Verbose {
		printer.PrintChunkStatistics(stats)
	}
	emitProgress(&opts, StepSegment,
		fmt.Sprintf("Segmented text into %d chunks", len(chunks)), stats)

	if len(chunks) == 0 {
		result.Summary = "No reviewable content found."
		result.Finalize()
		return result, nil
	}

	// Persistence is best effort: a missing or unreachable database
	// never fails the review.
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: failed to prepare database schema: %v\n", err)
				database = nil
			}
		}
	}
	if database != nil {
		runID, err = database.CreateRun(ctx, &db.RunInput{
			Scenario:   scenario,
			Source:     opts.Source,
			Strategy:   splitCfg.Strategy.String(),
			TextLength: result.Metadata.TextLength,
			ChunkCount: len(chunks),
		})
		if err != nil {
			fmt.Printf("Warning: failed to create database run: %v\n", err)
			database = nil
		}
	}

	instructions := points.Prompt(manager.LocalPoints(scenario))
	checkCfg := checkConfig(cfg, manager, scenario)

	outcomes, report, err := analyze(ctx, client, chunks, &opts, cfg, instructions, checkCfg)
	if err != nil {
		// A cancelled run is aborted outright; everything else
		// degrades into a single critical finding on a still-complete
		// result, so the caller always gets something scorable.
		if ctx.Err() != nil {
			if database != nil && runID != uuid.Nil {
				_ = database.CompleteRun(context.WithoutCancel(ctx), runID, db.RunStatusFailed, 0)
			}
			return nil, err
		}
		result.AddFinding(types.Finding{
			ChunkID:     types.GlobalChunkID,
			Kind:        types.KindError,
			Severity:    types.SeverityCritical,
			Description: fmt.Sprintf("review orchestration failed: %v", err),
			Suggestion:  "rerun the review",
			Confidence:  1,
		})
		result.Summary = fmt.Sprintf("Review aborted before completion: %v", err)
		result.Finalize()
		if database != nil && runID != uuid.Nil {
			_ = database.CompleteRun(ctx, runID, db.RunStatusFailed, result.OverallScore)
		}
		return result, nil
	}

	aggregate(result, outcomes, report)
	result.Summary = buildSummary(result, report)
	result.Finalize()

	if opts.Verbose {
		printer.PrintConsistencyReport(report)
		printer.PrintReviewResult(result)
	}
	emitProgress(&opts, StepAggregate,
		fmt.Sprintf("Overall score: %.1f with %d issues", result.OverallScore, result.TotalIssues), nil)

	if database != nil && runID != uuid.Nil {
		_ = database.SaveReport(ctx, runID, db.ReportKindChunks, outcomes)
		_ = database.SaveReport(ctx, runID, db.ReportKindConsistency, report)
		_ = database.SaveReport(ctx, runID, db.ReportKindResult, result)
		_ = database.CompleteRun(ctx, runID, db.RunStatusCompleted, result.OverallScore)
		if opts.Verbose {
			fmt.Printf("[VERBOSE] Stored review run: %s\n", runID)
		}
	}

	return result, nil
}

// checkConfig builds the consistency settings for the run. Scenarios
// whose review points include a cross-chunk conflict check opt into
// the requirements category.
func checkConfig(cfg *config.Config, manager *points.Manager, scenario string) consistency.Config {
	checkCfg := cfg.ConsistencyConfig()
	for _, p := range manager.CrossPoints(scenario) {
		if p.Type == points.CheckConflict {
			checkCfg.Categories = appendCategory(checkCfg.Categories, types.CheckRequirements)
			break
		}
	}
	return checkCfg
}

func appendCategory(categories []types.CheckCategory, want types.CheckCategory) []types.CheckCategory {
	for _, cat := range categories {
		if cat == want {
			return categories
		}
	}
	return append(categories, want)
}

// analyze runs chunk dispatch and then the cross-chunk checks. The
// checker starts only after every chunk outcome is in: the fact, logic
// and requirement checks need the complete chunk set, and the gateway
// must never carry more in-flight requests than the dispatch
// concurrency cap allows.
func analyze(ctx context.Context, client llm.Client, chunks []types.Chunk, opts *RunOptions, cfg *config.Config, instructions string, checkCfg consistency.Config) (outcomes []types.ChunkOutcome, report *types.ConsistencyReport, err error) {
	defer recoverToError(&err)

	outcomes, err = dispatch.Run(ctx, client, chunks, dispatch.Options{
		Concurrency:  cfg.Review.Concurrency,
		Scenario:     cfg.Review.Scenario,
		Context:      opts.Context,
		Instructions: instructions,
		Tier:         llm.ModelTier(cfg.Review.Tier),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("chunk analysis failed: %w", err)
	}
	failed := 0
	for _, outcome := range outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	emitProgress(opts, StepAnalyze,
		fmt.Sprintf("Analyzed %d chunks (%d failed)", len(outcomes), failed), nil)

	report, err = consistency.NewChecker(client, checkCfg).Check(ctx, chunks)
	if err != nil {
		return nil, nil, fmt.Errorf("consistency check failed: %w", err)
	}
	emitProgress(opts, StepConsistency,
		fmt.Sprintf("Consistency score: %.0f", report.Score), nil)
	return outcomes, report, nil
}

// recoverToError converts an analysis-phase panic into an ordinary error
func recoverToError(errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("orchestration panic: %v", r)
	}
}

// aggregate folds chunk outcomes and the consistency report into the
// result. A failed chunk contributes a single analysis-failure finding
// instead of its (missing) review findings.
func aggregate(result *types.ReviewResult, outcomes []types.ChunkOutcome, report *types.ConsistencyReport) {
	result.ChunkResults = outcomes
	for _, outcome := range outcomes {
		if outcome.Failed() {
			result.AddFinding(types.Finding{
				ChunkID:     outcome.ChunkID,
				Kind:        types.KindError,
				Severity:    types.SeverityHigh,
				Description: fmt.Sprintf("chunk analysis failed: %s", outcome.Error),
				Location:    fmt.Sprintf("chunk %d", outcome.ChunkID),
				Suggestion:  "rerun the review for this chunk",
				Confidence:  1,
			})
			continue
		}
		result.AddFindings(outcome.Findings)
	}

	result.ConsistencyResults = report

	// Critical issues may repeat entries from the findings list; merge
	// without double counting.
	seen := make(map[types.Finding]bool, len(report.Findings))
	for _, f := range report.Findings {
		seen[f] = true
	}
	result.AddFindings(report.Findings)
	for _, f := range report.CriticalIssues {
		if !seen[f] {
			result.AddFinding(f)
		}
	}

	result.Suggestions = collectSuggestions(outcomes, report)
}

// collectSuggestions merges per-chunk suggestions and consistency
// recommendations, deduplicated in first-seen order
func collectSuggestions(outcomes []types.ChunkOutcome, report *types.ConsistencyReport) []string {
	seen := map[string]bool{}
	suggestions := []string{}
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		suggestions = append(suggestions, s)
	}
	for _, outcome := range outcomes {
		for _, s := range outcome.Suggestions {
			add(s)
		}
	}
	for _, s := range report.Recommendations {
		add(s)
	}
	return suggestions
}

// maxSummaryCriticals bounds how many critical descriptions the
// summary quotes
const maxSummaryCriticals = 3

// buildSummary renders the one-paragraph run summary
func buildSummary(result *types.ReviewResult, report *types.ConsistencyReport) string {
	if len(result.Issues) == 0 {
		return fmt.Sprintf("Reviewed %d chunks covering %d characters; no issues found. Cross-chunk consistency score: %.0f.",
			result.Metadata.ChunkCount, result.Metadata.TextLength, report.Score)
	}

	grouped := result.GroupBySeverity()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reviewed %d chunks covering %d characters; found %d issues (%d critical, %d high, %d medium, %d low). Cross-chunk consistency score: %.0f.",
		result.Metadata.ChunkCount, result.Metadata.TextLength, len(result.Issues),
		len(grouped[types.SeverityCritical]), len(grouped[types.SeverityHigh]),
		len(grouped[types.SeverityMedium]), len(grouped[types.SeverityLow]), report.Score)

	if criticals := grouped[types.SeverityCritical]; len(criticals) > 0 {
		sb.WriteString(" Critical issues:")
		for i, f := range criticals {
			if i >= maxSummaryCriticals {
				break
			}
			fmt.Fprintf(&sb, " (%d) %s", i+1, f.Description)
		}
	}
	return sb.String()
}

// WriteJSON writes the finalized result as an indented JSON artifact
func WriteJSON(result *types.ReviewResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// WriteYAML writes the finalized result as a YAML artifact. The result
// is routed through its JSON form so the artifact keeps the exact
// report field names.
func WriteYAML(result *types.ReviewResult, path string) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(jsonData, &generic); err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	data, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// WriteArtifact writes the result in the format implied by the path
// extension: .yaml/.yml produce YAML, anything else JSON
func WriteArtifact(result *types.ReviewResult, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAML(result, path)
	default:
		return WriteJSON(result, path)
	}
}
