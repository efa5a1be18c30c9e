//nolint:revive // types is a standard Go package name pattern
package types

// CheckCategory names one of the cross-chunk consistency checks
type CheckCategory string

// Consistency check categories
const (
	CheckTerminology  CheckCategory = "terminology"
	CheckFacts        CheckCategory = "facts"
	CheckLogic        CheckCategory = "logic"
	CheckRequirements CheckCategory = "requirements"
)

// CheckResult holds the findings contributed by a single consistency
// check category
type CheckResult struct {
	Findings        []Finding `json:"inconsistencies"`
	CriticalIssues  []Finding `json:"critical_issues"`
	Recommendations []string  `json:"recommendations"`
}

// ConsistencyReport is the global result of cross-chunk checking
type ConsistencyReport struct {
	Score           float64                        `json:"consistency_score"`
	Findings        []Finding                      `json:"inconsistencies"`
	CriticalIssues  []Finding                      `json:"critical_issues"`
	Recommendations []string                       `json:"recommendations"`
	Checks          map[CheckCategory]*CheckResult `json:"detailed_results,omitempty"`
}

// NeutralConsistencyReport returns the perfect report used when
// consistency checking is disabled or fewer than two chunks exist
func NeutralConsistencyReport() *ConsistencyReport {
	return &ConsistencyReport{
		Score:           100,
		Findings:        []Finding{},
		CriticalIssues:  []Finding{},
		Recommendations: []string{},
	}
}
