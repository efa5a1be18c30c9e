package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Report kinds stored per run
const (
	ReportKindResult      = "review_result"
	ReportKindConsistency = "consistency"
	ReportKindChunks      = "chunk_results"
)

// Run represents a review run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	Scenario     string     `json:"scenario"`
	Source       *string    `json:"source,omitempty"`
	Strategy     *string    `json:"strategy,omitempty"`
	Status       string     `json:"status"`
	TextLength   int        `json:"text_length"`
	ChunkCount   int        `json:"chunk_count"`
	OverallScore *float64   `json:"overall_score,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the fields needed to create a run
type RunInput struct {
	Scenario   string
	Source     string
	Strategy   string
	TextLength int
	ChunkCount int
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Scenario string
	Status   string
	Limit    int
}
