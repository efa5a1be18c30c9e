// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/doc-reviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChunkStatistics outputs a summary of the segmentation phase.
func (p *Printer) PrintChunkStatistics(stats *types.ChunkStatistics) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategy:    %s\n", stats.Strategy))
	sb.WriteString(fmt.Sprintf("Chunks:      %d\n", stats.TotalChunks))
	sb.WriteString(fmt.Sprintf("Characters:  %d\n", stats.TotalChars))
	sb.WriteString(fmt.Sprintf("Chunk size:  avg %.0f, min %d, max %d", stats.AvgChunkSize, stats.MinChunkSize, stats.MaxChunkSize))

	p.printBox("Segmentation", sb.String())
}

// PrintConsistencyReport outputs a human-readable summary of the
// cross-chunk consistency check.
func (p *Printer) PrintConsistencyReport(report *types.ConsistencyReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:           %.1f\n", report.Score))
	sb.WriteString(fmt.Sprintf("Inconsistencies: %d\n", len(report.Findings)))
	sb.WriteString(fmt.Sprintf("Critical issues: %d\n", len(report.CriticalIssues)))

	if len(report.Findings) > 0 {
		sb.WriteString("\nTop inconsistencies:\n")
		for i, f := range report.Findings {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Findings)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", f.Severity, f.Description))
		}
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("  - %s\n", rec))
		}
	}

	p.printBox("Consistency Check", strings.TrimRight(sb.String(), "\n"))
}

// PrintChunkOutcomes outputs a one-line status per analyzed chunk.
func (p *Printer) PrintChunkOutcomes(outcomes []types.ChunkOutcome) {
	var sb strings.Builder
	for _, outcome := range outcomes {
		if outcome.Failed() {
			sb.WriteString(fmt.Sprintf("chunk %d: FAILED (%s)\n", outcome.ChunkID, outcome.Error))
			continue
		}
		sb.WriteString(fmt.Sprintf("chunk %d: score %.0f, %d issues\n",
			outcome.ChunkID, outcome.Score, len(outcome.Findings)))
	}

	p.printBox("Chunk Analysis", strings.TrimRight(sb.String(), "\n"))
}

// PrintReviewResult outputs the final aggregated review result.
func (p *Printer) PrintReviewResult(result *types.ReviewResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %.1f\n", result.OverallScore))
	sb.WriteString(fmt.Sprintf("Total issues:  %d\n", result.TotalIssues))

	for _, severity := range types.Severities {
		findings := result.IssuesBySeverity[severity]
		if len(findings) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-8s %d\n", severity+":", len(findings)))
	}

	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for i, s := range result.Suggestions {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Suggestions)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s\n", s))
		}
	}

	if result.Summary != "" {
		sb.WriteString("\n" + result.Summary)
	}

	p.printBox("Review Result", strings.TrimRight(sb.String(), "\n"))
}
