package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/doc-reviewer/internal/types"
)

func TestParseAnalysis_Structured(t *testing.T) {
	raw := `{
		"overall_score": 82,
		"issues": [
			{
				"type": "terminology",
				"severity": "high",
				"description": "术语使用不一致",
				"location": "第二段",
				"suggestion": "统一术语",
				"confidence": 0.9
			}
		],
		"suggestions": ["建议统一全文术语"],
		"summary": "整体质量较好"
	}`

	analysis := ParseAnalysis(raw)
	assert.Equal(t, types.OriginStructured, analysis.Origin)
	assert.Equal(t, 82.0, analysis.Score)
	require.Len(t, analysis.Findings, 1)
	assert.Equal(t, types.KindTerminology, analysis.Findings[0].Kind)
	assert.Equal(t, types.SeverityHigh, analysis.Findings[0].Severity)
	assert.Equal(t, 0.9, analysis.Findings[0].Confidence)
	assert.Equal(t, []string{"建议统一全文术语"}, analysis.Suggestions)
	assert.Equal(t, "整体质量较好", analysis.Summary)
}

func TestParseAnalysis_StructuredInsideCodeFence(t *testing.T) {
	raw := "```json\n{\"overall_score\": 90, \"issues\": [], \"summary\": \"ok\"}\n```"
	analysis := ParseAnalysis(raw)
	assert.Equal(t, types.OriginStructured, analysis.Origin)
	assert.Equal(t, 90.0, analysis.Score)
}

func TestParseAnalysis_StructuredDefaults(t *testing.T) {
	raw := `{"overall_score": 120, "issues": [{"description": "缺少严重程度"}]}`
	analysis := ParseAnalysis(raw)

	assert.Equal(t, types.OriginStructured, analysis.Origin)
	assert.Equal(t, 100.0, analysis.Score, "score clamps to [0,100]")
	require.Len(t, analysis.Findings, 1)
	assert.Equal(t, types.SeverityMedium, analysis.Findings[0].Severity)
	assert.Equal(t, types.KindGeneral, analysis.Findings[0].Kind)
	assert.Equal(t, 1.0, analysis.Findings[0].Confidence)
}

func TestParseAnalysis_HeuristicScorePhrases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"chinese rating", "整体评分: 88\n其余内容", 88},
		{"chinese points", "该文本可得85分。", 85},
		{"fraction", "质量为 72/100", 72},
		{"english score", "Overall score: 64", 64},
		{"no score phrase", "这段文字没有任何数字短语", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := ParseAnalysis(tt.raw)
			assert.Equal(t, types.OriginHeuristic, analysis.Origin)
			assert.Equal(t, tt.want, analysis.Score)
		})
	}
}

func TestParseAnalysis_HeuristicFindings(t *testing.T) {
	raw := "第一行没有关键词\n第二段存在逻辑错误\n第三处表述不一致\n普通描述行"
	analysis := ParseAnalysis(raw)

	require.Len(t, analysis.Findings, 2)
	assert.Equal(t, "第二段存在逻辑错误", analysis.Findings[0].Description)
	assert.Equal(t, types.SeverityMedium, analysis.Findings[0].Severity)
	assert.Equal(t, 0.5, analysis.Findings[0].Confidence)
}

func TestParseAnalysis_HeuristicSuggestionsCapped(t *testing.T) {
	raw := "建议改进第一处的表述方式\n" +
		"建议改进第二处的表述方式\n" +
		"建议改进第三处的表述方式\n" +
		"建议改进第四处的表述方式\n" +
		"建议改进第五处的表述方式\n" +
		"建议改进第六处的表述方式\n"
	analysis := ParseAnalysis(raw)
	assert.Len(t, analysis.Suggestions, 5)
}

func TestParseAnalysis_HeuristicSummaryTruncated(t *testing.T) {
	long := make([]rune, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, '长')
	}
	analysis := ParseAnalysis(string(long))

	runes := []rune(analysis.Summary)
	assert.Len(t, runes, 203) // 200 chars plus ellipsis
	assert.Equal(t, "...", string(runes[200:]))
}

func TestParseAnalysis_EmptyObjectFallsBack(t *testing.T) {
	analysis := ParseAnalysis("{}")
	assert.Equal(t, types.OriginHeuristic, analysis.Origin)
	assert.Equal(t, 75.0, analysis.Score)
}

func TestParseStructured_LabelsTheMiss(t *testing.T) {
	var parseErr *ParseError

	_, err := parseStructured("plain prose reply")
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "not valid JSON")

	_, err = parseStructured("{}")
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "not a review result")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"generic fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with lang id", "```yaml\nkey: 1\n```", "key: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := &GatewayError{Message: "timeout", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "timeout")
}
