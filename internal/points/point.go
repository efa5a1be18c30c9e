// Package points manages scenario review points: the named checks a
// review run applies, loaded from YAML configuration and turned into
// analysis instructions.
package points

// CheckType classifies what a review point examines
type CheckType string

const (
	CheckFormat       CheckType = "format"
	CheckLanguage     CheckType = "language"
	CheckConsistency  CheckType = "consistency"
	CheckLogic        CheckType = "logic"
	CheckCompleteness CheckType = "completeness"
	CheckConflict     CheckType = "conflict"
	CheckAccuracy     CheckType = "accuracy"
	CheckSource       CheckType = "source"
	CheckBias         CheckType = "bias"
	CheckSensitivity  CheckType = "sensitivity"
	CheckClarity      CheckType = "clarity"
	CheckIntegrity    CheckType = "integrity"
	CheckFairness     CheckType = "fairness"
	CheckFeasibility  CheckType = "feasibility"
)

var validCheckTypes = map[CheckType]bool{
	CheckFormat: true, CheckLanguage: true, CheckConsistency: true,
	CheckLogic: true, CheckCompleteness: true, CheckConflict: true,
	CheckAccuracy: true, CheckSource: true, CheckBias: true,
	CheckSensitivity: true, CheckClarity: true, CheckIntegrity: true,
	CheckFairness: true, CheckFeasibility: true,
}

// Priority orders review points within a prompt and within a scenario
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort position of a priority, most urgent first.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Scope describes where a review point applies: within a single chunk,
// across adjacent chunks, or over the whole document.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
	ScopeCross  Scope = "cross"
)

// Point is one configured review point
type Point struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Type          CheckType         `yaml:"type"`
	Priority      Priority          `yaml:"priority"`
	Enabled       *bool             `yaml:"enabled"`
	Scope         Scope             `yaml:"check_scope"`
	RequiredItems []string          `yaml:"required_items"`
	CheckFields   []string          `yaml:"check_fields"`
	Metadata      map[string]string `yaml:"metadata"`
}

// IsEnabled reports whether the point participates in reviews; points
// are enabled unless explicitly disabled
func (p *Point) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// normalize fills unset or unrecognized fields with their defaults
func (p *Point) normalize() {
	if !validCheckTypes[p.Type] {
		p.Type = CheckFormat
	}
	if p.Priority.Rank() > PriorityLow.Rank() {
		p.Priority = PriorityMedium
	}
	switch p.Scope {
	case ScopeLocal, ScopeGlobal, ScopeCross:
	default:
		p.Scope = ScopeLocal
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
}
