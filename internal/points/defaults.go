package points

// defaultPoints is the built-in review point set used when no YAML
// configuration is supplied.
var defaultPoints = configFile{
	"general": {
		"format_checks": {
			{
				Name:        "heading hierarchy",
				Description: "Headings follow a consistent hierarchy without skipped levels",
				Type:        CheckFormat,
				Priority:    PriorityMedium,
			},
			{
				Name:        "punctuation and spacing",
				Description: "Punctuation is used correctly and spacing is consistent",
				Type:        CheckFormat,
				Priority:    PriorityLow,
			},
		},
		"language_checks": {
			{
				Name:        "grammar and wording",
				Description: "Sentences are grammatical and wording is unambiguous",
				Type:        CheckLanguage,
				Priority:    PriorityHigh,
			},
			{
				Name:        "terminology usage",
				Description: "Domain terms are used consistently throughout the text",
				Type:        CheckConsistency,
				Priority:    PriorityHigh,
				Scope:       ScopeGlobal,
			},
		},
		"logic_checks": {
			{
				Name:        "argument coherence",
				Description: "Claims follow from their premises and sections do not contradict each other",
				Type:        CheckLogic,
				Priority:    PriorityHigh,
				Scope:       ScopeCross,
			},
		},
	},
	"contract": {
		"legal_checks": {
			{
				Name:          "legal clause completeness",
				Description:   "All clauses a binding agreement requires are present",
				Type:          CheckCompleteness,
				Priority:      PriorityCritical,
				RequiredItems: []string{"parties", "term", "payment", "liability", "dispute resolution"},
			},
			{
				Name:        "party information consistency",
				Description: "Party names, roles, and identifiers match everywhere they appear",
				Type:        CheckConsistency,
				Priority:    PriorityCritical,
				Scope:       ScopeGlobal,
			},
			{
				Name:        "clause conflicts",
				Description: "No two clauses impose contradictory obligations",
				Type:        CheckConflict,
				Priority:    PriorityCritical,
				Scope:       ScopeCross,
			},
		},
	},
	"media": {
		"editorial_checks": {
			{
				Name:        "factual accuracy",
				Description: "Stated facts, figures, and dates are verifiable and correct",
				Type:        CheckAccuracy,
				Priority:    PriorityCritical,
			},
			{
				Name:        "bias detection",
				Description: "Coverage is balanced and free of loaded framing",
				Type:        CheckBias,
				Priority:    PriorityHigh,
			},
			{
				Name:        "sensitive content",
				Description: "Content complies with publication standards for sensitive topics",
				Type:        CheckSensitivity,
				Priority:    PriorityCritical,
			},
			{
				Name:        "source attribution",
				Description: "Claims attribute their sources clearly",
				Type:        CheckSource,
				Priority:    PriorityMedium,
			},
		},
	},
	"academic": {
		"scholarship_checks": {
			{
				Name:          "structural completeness",
				Description:   "The paper contains the expected scholarly sections",
				Type:          CheckIntegrity,
				Priority:      PriorityHigh,
				RequiredItems: []string{"abstract", "introduction", "methods", "results", "conclusion", "references"},
			},
			{
				Name:        "citation consistency",
				Description: "In-text citations match the reference list and follow one style",
				Type:        CheckConsistency,
				Priority:    PriorityHigh,
				Scope:       ScopeGlobal,
			},
			{
				Name:        "method description clarity",
				Description: "Methods are described precisely enough to reproduce",
				Type:        CheckClarity,
				Priority:    PriorityMedium,
			},
		},
	},
}

// Default returns a manager preloaded with the built-in review points
func Default() *Manager {
	return NewManager(defaultPoints)
}
