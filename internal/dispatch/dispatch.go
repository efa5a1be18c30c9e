// Package dispatch runs per-chunk analysis against the gateway under
// bounded concurrency, with per-task failure isolation and
// order-independent result assembly.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/types"
)

// DefaultConcurrency caps in-flight gateway requests when the caller
// does not choose a limit
const DefaultConcurrency = 4

// defaultInstructions is used when no scenario review points supply a
// prompt
const defaultInstructions = `You are an expert document reviewer. Review the text for language correctness, logical clarity, factual accuracy, and formatting.

Return ONLY valid JSON with fields:
- overall_score: number 0-100
- issues: list of {type, severity (critical/high/medium/low), description, location, suggestion, confidence (0.0-1.0)}
- suggestions: list of improvement suggestions
- summary: one-paragraph review summary`

// Options configures a dispatch run
type Options struct {
	// Concurrency caps simultaneous gateway calls; <=1 degenerates to
	// strictly sequential execution with identical observable semantics
	Concurrency int
	// Scenario names the review scenario included in each request context
	Scenario string
	// Context is caller-supplied external context carried into every request
	Context string
	// Instructions is the review prompt; empty selects the default
	Instructions string
	// Tier selects the gateway model tier
	Tier llm.ModelTier
}

// Run analyzes every chunk and returns one outcome per chunk, indexed
// by position (outcome i belongs to chunk i; chunk identity is also
// preserved in the chunk_id field). A chunk's failure is recorded in
// its own outcome and never affects its siblings. Run only returns an
// error when ctx is cancelled, in which case the whole review is
// considered cancelled rather than partially complete.
func Run(ctx context.Context, client llm.Client, chunks []types.Chunk, opts Options) ([]types.ChunkOutcome, error) {
	outcomes := make([]types.ChunkOutcome, len(chunks))
	if len(chunks) == 0 {
		return outcomes, nil
	}

	limit := opts.Concurrency
	if limit == 0 {
		limit = DefaultConcurrency
	}

	if limit <= 1 || len(chunks) == 1 {
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = processChunk(ctx, client, chunk, opts)
		}
		return outcomes, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// Each task owns its chunk and writes only its own slot.
			outcomes[i] = processChunk(gCtx, client, chunk, opts)
			if err := gCtx.Err(); err != nil {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processChunk submits one chunk for analysis and interprets the
// reply. Gateway failures become a failure outcome for this chunk only.
func processChunk(ctx context.Context, client llm.Client, chunk types.Chunk, opts Options) types.ChunkOutcome {
	instructions := opts.Instructions
	if instructions == "" {
		instructions = defaultInstructions
	}

	raw, err := client.Analyze(ctx, llm.Request{
		Content:      chunk.Content,
		Context:      buildContext(chunk, opts),
		Instructions: instructions,
		Tier:         opts.Tier,
	})
	if err != nil {
		return types.FailedOutcome(chunk, err)
	}

	analysis := llm.ParseAnalysis(raw)

	findings := make([]types.Finding, len(analysis.Findings))
	for i, f := range analysis.Findings {
		f.ChunkID = chunk.ID
		if f.Location == "" {
			f.Location = fmt.Sprintf("chunk %d", chunk.ID)
		}
		findings[i] = f
	}

	return types.ChunkOutcome{
		ChunkID:       chunk.ID,
		Chapter:       chunk.Chapter,
		Section:       chunk.Section,
		ContentLength: chunk.Len(),
		Score:         analysis.Score,
		Findings:      findings,
		Suggestions:   analysis.Suggestions,
		Summary:       analysis.Summary,
		Origin:        analysis.Origin,
	}
}

// buildContext assembles the accumulated context description for one
// chunk: scenario, chapter, position, external context, and any
// carried-forward summary of prior chunks.
func buildContext(chunk types.Chunk, opts Options) string {
	parts := []string{fmt.Sprintf("Review scenario: %s", opts.Scenario)}

	if chunk.Chapter != "" {
		parts = append(parts, fmt.Sprintf("Chapter: %s", chunk.Chapter))
	}
	parts = append(parts, fmt.Sprintf("Chunk number: %d", chunk.ID))

	if opts.Context != "" {
		parts = append(parts, "\nExternal context:\n"+opts.Context)
	}
	if prev, ok := chunk.Metadata["previous_summary"]; ok && prev != "" {
		parts = append(parts, "\nSummary of preceding text:\n"+prev)
	}
	return strings.Join(parts, "\n")
}
