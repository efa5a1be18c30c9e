//nolint:revive // types is a standard Go package name pattern
package types

// AnalysisOrigin records how an analysis reply was interpreted
type AnalysisOrigin string

// Reply interpretation tiers. Structured means the gateway reply parsed
// as the expected JSON shape; heuristic means a best-effort extraction
// from raw reply text.
const (
	OriginStructured AnalysisOrigin = "structured"
	OriginHeuristic  AnalysisOrigin = "heuristic"
)

// ChunkOutcome is the per-chunk analysis result: either a structured
// success (score, findings, suggestions) or a failure marker carrying
// an error description, never both.
type ChunkOutcome struct {
	ChunkID       int            `json:"chunk_id"`
	Chapter       string         `json:"chapter,omitempty"`
	Section       string         `json:"section,omitempty"`
	ContentLength int            `json:"content_length"`
	Score         float64        `json:"overall_score"`
	Findings      []Finding      `json:"issues"`
	Suggestions   []string       `json:"suggestions,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Origin        AnalysisOrigin `json:"origin,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Failed reports whether the chunk's analysis ended in an error
func (o ChunkOutcome) Failed() bool {
	return o.Error != ""
}

// FailedOutcome builds the failure marker for a chunk whose analysis
// could not complete. Sibling chunks are unaffected.
func FailedOutcome(chunk Chunk, err error) ChunkOutcome {
	return ChunkOutcome{
		ChunkID:       chunk.ID,
		Chapter:       chunk.Chapter,
		Section:       chunk.Section,
		ContentLength: chunk.Len(),
		Findings:      []Finding{},
		Error:         err.Error(),
	}
}
