// Package types provides type definitions for structured data used throughout the doc-reviewer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Severity classifies how serious a finding is
type Severity string

// Severity levels, ordered from most to least serious
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists all severity levels in descending order of seriousness
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is a known severity level
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// PenaltyWeight returns the score penalty charged per finding of this
// severity when computing the overall review score
func (s Severity) PenaltyWeight() float64 {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	default:
		return 1
	}
}

// FindingKind classifies what aspect of the text a finding concerns
type FindingKind string

// Finding kinds. Terminology through requirement originate from the
// consistency checker; the rest come from per-chunk analysis.
const (
	KindTerminology  FindingKind = "terminology"
	KindFact         FindingKind = "fact"
	KindLogic        FindingKind = "logic"
	KindRequirement  FindingKind = "requirement"
	KindFormat       FindingKind = "format"
	KindLanguage     FindingKind = "language"
	KindCompleteness FindingKind = "completeness"
	KindAccuracy     FindingKind = "accuracy"
	KindClarity      FindingKind = "clarity"
	KindGeneral      FindingKind = "general"
	KindError        FindingKind = "error"
)

// GlobalChunkID marks findings that concern the document as a whole
// rather than a single chunk (e.g. cross-chunk consistency findings).
const GlobalChunkID = -1

// Finding represents a single detected problem. Findings are value
// objects: created once, never mutated.
type Finding struct {
	ChunkID     int         `json:"chunk_id"`
	Kind        FindingKind `json:"type"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Suggestion  string      `json:"suggestion"`
	Confidence  float64     `json:"confidence"`
}

// Global reports whether the finding spans chunks rather than
// belonging to one of them
func (f Finding) Global() bool {
	return f.ChunkID == GlobalChunkID
}
