//nolint:revive // types is a standard Go package name pattern
package types

// Chunk is an immutable unit of the source document produced by
// segmentation. IDs are assigned in left-to-right scan order; the
// chunks ordered by ID reconstruct the source text modulo the
// configured overlap windows.
type Chunk struct {
	ID       int               `json:"chunk_id"`
	Content  string            `json:"content"`
	Chapter  string            `json:"chapter,omitempty"`
	Section  string            `json:"section,omitempty"`
	Start    int               `json:"start_pos"`
	End      int               `json:"end_pos"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Len returns the chunk content length in bytes
func (c Chunk) Len() int {
	return len(c.Content)
}

// ChunkStatistics summarizes a segmentation run for report metadata
type ChunkStatistics struct {
	TotalChunks  int     `json:"total_chunks"`
	TotalChars   int     `json:"total_chars"`
	AvgChunkSize float64 `json:"avg_chunk_size"`
	MinChunkSize int     `json:"min_chunk_size"`
	MaxChunkSize int     `json:"max_chunk_size"`
	Strategy     string  `json:"strategy"`
}
