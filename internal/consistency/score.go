package consistency

import "github.com/jonathan/doc-reviewer/internal/types"

// Penalty weights per issue, scaled by confidence. Issues promoted to
// the critical list weigh more than critical-severity findings left in
// the general list.
const (
	criticalListPenalty     = 15.0
	criticalSeverityPenalty = 10.0
	highSeverityPenalty     = 5.0
	mediumSeverityPenalty   = 2.0
	lowSeverityPenalty      = 1.0
)

// scoreResults computes the consistency score: 100 minus the
// confidence-weighted penalties of every finding, floored at zero.
func scoreResults(results map[types.CheckCategory]*types.CheckResult) float64 {
	penalty := 0.0
	for _, result := range results {
		for _, issue := range result.CriticalIssues {
			penalty += criticalListPenalty * issue.Confidence
		}
		for _, issue := range result.Findings {
			switch issue.Severity {
			case types.SeverityCritical:
				penalty += criticalSeverityPenalty * issue.Confidence
			case types.SeverityHigh:
				penalty += highSeverityPenalty * issue.Confidence
			case types.SeverityMedium:
				penalty += mediumSeverityPenalty * issue.Confidence
			default:
				penalty += lowSeverityPenalty * issue.Confidence
			}
		}
	}
	score := 100 - penalty
	if score < 0 {
		return 0
	}
	return score
}
