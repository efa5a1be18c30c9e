//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOverallScore_NoFindings(t *testing.T) {
	r := NewReviewResult("general")
	assert.Equal(t, 100.0, r.CalculateOverallScore())
}

func TestCalculateOverallScore_SeverityWeights(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     float64
	}{
		{"critical", SeverityCritical, 80},
		{"high", SeverityHigh, 90},
		{"medium", SeverityMedium, 95},
		{"low", SeverityLow, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReviewResult("general")
			r.AddFinding(Finding{
				ChunkID:    0,
				Kind:       KindGeneral,
				Severity:   tt.severity,
				Confidence: 1.0,
			})
			assert.Equal(t, tt.want, r.CalculateOverallScore())
		})
	}
}

func TestCalculateOverallScore_ConfidenceScaling(t *testing.T) {
	r := NewReviewResult("general")
	r.AddFinding(Finding{Severity: SeverityCritical, Confidence: 0.5})
	assert.Equal(t, 90.0, r.CalculateOverallScore())
}

func TestCalculateOverallScore_FlooredAtZero(t *testing.T) {
	r := NewReviewResult("general")
	for i := 0; i < 10; i++ {
		r.AddFinding(Finding{Severity: SeverityCritical, Confidence: 1.0})
	}
	assert.Equal(t, 0.0, r.CalculateOverallScore())
}

func TestCalculateOverallScore_MonotonicPenalty(t *testing.T) {
	r := NewReviewResult("general")
	r.AddFinding(Finding{Severity: SeverityMedium, Confidence: 0.8})
	before := r.CalculateOverallScore()

	r.AddFinding(Finding{Severity: SeverityCritical, Confidence: 1.0})
	after := r.CalculateOverallScore()
	assert.LessOrEqual(t, after, before)
}

func TestGroupBySeverity_AllBandsPresent(t *testing.T) {
	r := NewReviewResult("general")
	r.AddFindings([]Finding{
		{Severity: SeverityCritical, Description: "a"},
		{Severity: SeverityCritical, Description: "b"},
		{Severity: SeverityLow, Description: "c"},
	})

	grouped := r.GroupBySeverity()
	assert.Len(t, grouped[SeverityCritical], 2)
	assert.Empty(t, grouped[SeverityHigh])
	assert.Empty(t, grouped[SeverityMedium])
	assert.Len(t, grouped[SeverityLow], 1)
}

func TestFinalize_RunsOnce(t *testing.T) {
	r := NewReviewResult("contract")
	r.AddFinding(Finding{Severity: SeverityHigh, Confidence: 1.0})

	r.Finalize()
	require.True(t, r.Finalized())
	assert.Equal(t, 90.0, r.OverallScore)
	assert.Equal(t, 1, r.TotalIssues)
	assert.NotEmpty(t, r.Metadata.StartTime)
	assert.NotEmpty(t, r.Metadata.EndTime)

	// A second call must not recompute anything.
	r.AddFinding(Finding{Severity: SeverityCritical, Confidence: 1.0})
	r.Finalize()
	assert.Equal(t, 90.0, r.OverallScore)
	assert.Equal(t, 1, r.TotalIssues)
}

func TestReviewResult_ArtifactFieldNames(t *testing.T) {
	r := NewReviewResult("general")
	r.Metadata.TextLength = 42
	r.Metadata.ChunkCount = 1
	r.ConsistencyResults = NeutralConsistencyReport()
	r.Finalize()

	data, err := json.Marshal(r)
	require.NoError(t, err)

	for _, field := range []string{
		`"overall_score"`, `"issues"`, `"issues_by_severity"`,
		`"total_issues"`, `"suggestions"`, `"summary"`,
		`"chunk_results"`, `"consistency_results"`, `"metadata"`,
		`"scenario"`, `"text_length"`, `"chunk_count"`,
		`"duration_seconds"`, `"start_time"`, `"end_time"`,
	} {
		assert.Contains(t, string(data), field)
	}
}

func TestFailedOutcome(t *testing.T) {
	chunk := Chunk{ID: 3, Content: "some text", Chapter: "第一章"}
	outcome := FailedOutcome(chunk, errors.New("gateway timeout"))

	assert.True(t, outcome.Failed())
	assert.Equal(t, 3, outcome.ChunkID)
	assert.Equal(t, "第一章", outcome.Chapter)
	assert.Equal(t, len("some text"), outcome.ContentLength)
	assert.Equal(t, "gateway timeout", outcome.Error)
	assert.Empty(t, outcome.Findings)
}

func TestNeutralConsistencyReport(t *testing.T) {
	report := NeutralConsistencyReport()
	assert.Equal(t, 100.0, report.Score)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.CriticalIssues)
	assert.Empty(t, report.Recommendations)
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range Severities {
		assert.True(t, s.Valid())
	}
	assert.False(t, Severity("fatal").Valid())
}

func TestFinding_Global(t *testing.T) {
	assert.True(t, Finding{ChunkID: GlobalChunkID}.Global())
	assert.False(t, Finding{ChunkID: 0}.Global())
}
