//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RunMetadata describes a review run for the report artifact
type RunMetadata struct {
	Scenario        string           `json:"scenario"`
	TextLength      int              `json:"text_length"`
	ChunkCount      int              `json:"chunk_count"`
	ChunkStatistics *ChunkStatistics `json:"chunk_statistics,omitempty"`
	SourceFile      string           `json:"source_file,omitempty"`
	DurationSeconds float64          `json:"duration_seconds"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
}

// ReviewResult is the terminal aggregate of a review run. It is
// created empty when the run starts, populated incrementally by the
// orchestrator and the consistency checker, and finalized exactly once
// before being handed to the caller.
type ReviewResult struct {
	OverallScore       float64                `json:"overall_score"`
	Issues             []Finding              `json:"issues"`
	IssuesBySeverity   map[Severity][]Finding `json:"issues_by_severity"`
	TotalIssues        int                    `json:"total_issues"`
	Suggestions        []string               `json:"suggestions"`
	Summary            string                 `json:"summary"`
	ChunkResults       []ChunkOutcome         `json:"chunk_results"`
	ConsistencyResults *ConsistencyReport     `json:"consistency_results"`
	Metadata           RunMetadata            `json:"metadata"`

	started   time.Time
	finalized bool
}

// NewReviewResult creates an empty result and opens its run clock
func NewReviewResult(scenario string) *ReviewResult {
	return &ReviewResult{
		Issues:       []Finding{},
		Suggestions:  []string{},
		ChunkResults: []ChunkOutcome{},
		Metadata:     RunMetadata{Scenario: scenario},
		started:      time.Now(),
	}
}

// AddFinding appends a single finding
func (r *ReviewResult) AddFinding(f Finding) {
	r.Issues = append(r.Issues, f)
}

// AddFindings appends multiple findings
func (r *ReviewResult) AddFindings(fs []Finding) {
	r.Issues = append(r.Issues, fs...)
}

// GroupBySeverity returns the findings bucketed by severity level.
// Every level is present, possibly empty.
func (r *ReviewResult) GroupBySeverity() map[Severity][]Finding {
	grouped := make(map[Severity][]Finding, len(Severities))
	for _, s := range Severities {
		grouped[s] = []Finding{}
	}
	for _, f := range r.Issues {
		if f.Severity.Valid() {
			grouped[f.Severity] = append(grouped[f.Severity], f)
		}
	}
	return grouped
}

// CalculateOverallScore computes the severity-weighted score: start at
// 100, subtract each finding's severity weight scaled by confidence,
// floor at 0. The consistency sub-score is reported alongside and is
// not folded in.
func (r *ReviewResult) CalculateOverallScore() float64 {
	if len(r.Issues) == 0 {
		return 100
	}
	penalty := 0.0
	for _, f := range r.Issues {
		penalty += f.Severity.PenaltyWeight() * f.Confidence
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// Finalized reports whether Finalize has run
func (r *ReviewResult) Finalized() bool {
	return r.finalized
}

// Finalize closes the run: computes the overall score, groups findings,
// and stamps timing metadata. Calling it more than once is a no-op.
func (r *ReviewResult) Finalize() {
	if r.finalized {
		return
	}
	end := time.Now()
	r.OverallScore = r.CalculateOverallScore()
	r.IssuesBySeverity = r.GroupBySeverity()
	r.TotalIssues = len(r.Issues)
	r.Metadata.DurationSeconds = end.Sub(r.started).Seconds()
	r.Metadata.StartTime = r.started.Format(time.RFC3339)
	r.Metadata.EndTime = end.Format(time.RFC3339)
	r.finalized = true
}
