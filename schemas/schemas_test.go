package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/doc-reviewer/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaFile = "review_result.schema.json"

func readSchema(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(schemaFile)
	require.NoError(t, err, "should be able to read schema file")
	return string(data)
}

func TestReviewResultSchema_ValidJSON(t *testing.T) {
	data := readSchema(t)

	var schemaObj map[string]interface{}
	err := json.Unmarshal([]byte(data), &schemaObj)
	require.NoError(t, err, "schema file should be valid JSON")

	_, hasType := schemaObj["type"]
	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasType && hasSchema && hasProps,
		"schema should declare type, $schema, and properties")
}

func TestReviewResultSchema_AcceptsCompleteResult(t *testing.T) {
	resultJSON := `{
		"overall_score": 82.5,
		"issues": [
			{
				"chunk_id": 0,
				"type": "grammar",
				"severity": "medium",
				"description": "句式重复",
				"location": "chunk 0",
				"suggestion": "改写重复句式",
				"confidence": 0.9
			},
			{
				"chunk_id": -1,
				"type": "terminology",
				"severity": "medium",
				"description": "术语使用不一致",
				"location": "chunk 0, chunk 2",
				"suggestion": "统一术语",
				"confidence": 0.8
			}
		],
		"issues_by_severity": {
			"medium": [
				{
					"chunk_id": 0,
					"type": "grammar",
					"severity": "medium",
					"description": "句式重复"
				}
			]
		},
		"total_issues": 2,
		"suggestions": ["统一术语", "改写重复句式"],
		"summary": "文档整体质量良好。",
		"chunk_results": [
			{
				"chunk_id": 0,
				"chapter": "第一章",
				"content_length": 1200,
				"overall_score": 85,
				"issues": [],
				"origin": "structured"
			},
			{
				"chunk_id": 1,
				"content_length": 900,
				"overall_score": 0,
				"issues": [],
				"error": "gateway error: deadline exceeded"
			}
		],
		"consistency_results": {
			"consistency_score": 92,
			"inconsistencies": [],
			"critical_issues": [],
			"recommendations": ["建立术语表"]
		},
		"metadata": {
			"scenario": "general",
			"text_length": 2100,
			"chunk_count": 2,
			"chunk_statistics": {
				"total_chunks": 2,
				"total_chars": 2100,
				"avg_chunk_size": 1050,
				"min_chunk_size": 900,
				"max_chunk_size": 1200,
				"strategy": "chapter"
			},
			"duration_seconds": 12.4,
			"start_time": "2025-06-01T10:00:00Z",
			"end_time": "2025-06-01T10:00:12Z"
		}
	}`

	err := schemas.ValidateJSONString(readSchema(t), resultJSON)
	assert.NoError(t, err)
}

func TestReviewResultSchema_AcceptsNullConsistency(t *testing.T) {
	resultJSON := `{
		"overall_score": 100,
		"issues": [],
		"issues_by_severity": {},
		"total_issues": 0,
		"suggestions": [],
		"summary": "无问题。",
		"chunk_results": [],
		"consistency_results": null,
		"metadata": {"scenario": "general", "text_length": 0, "chunk_count": 0}
	}`

	err := schemas.ValidateJSONString(readSchema(t), resultJSON)
	assert.NoError(t, err)
}

func TestReviewResultSchema_RejectsInvalidDocuments(t *testing.T) {
	schema := readSchema(t)

	tests := []struct {
		name string
		doc  string
	}{
		{
			"score above range",
			`{"overall_score": 120, "issues": [], "total_issues": 0, "summary": "s",
			  "chunk_results": [], "metadata": {"scenario": "general", "text_length": 0, "chunk_count": 0}}`,
		},
		{
			"bad severity",
			`{"overall_score": 90,
			  "issues": [{"chunk_id": 0, "type": "grammar", "severity": "fatal", "description": "d"}],
			  "total_issues": 1, "summary": "s", "chunk_results": [],
			  "metadata": {"scenario": "general", "text_length": 0, "chunk_count": 0}}`,
		},
		{
			"unknown scenario",
			`{"overall_score": 90, "issues": [], "total_issues": 0, "summary": "s",
			  "chunk_results": [], "metadata": {"scenario": "novel", "text_length": 0, "chunk_count": 0}}`,
		},
		{
			"missing metadata",
			`{"overall_score": 90, "issues": [], "total_issues": 0, "summary": "s", "chunk_results": []}`,
		},
		{
			"confidence above range",
			`{"overall_score": 90,
			  "issues": [{"chunk_id": 0, "type": "facts", "severity": "high", "description": "d", "confidence": 1.5}],
			  "total_issues": 1, "summary": "s", "chunk_results": [],
			  "metadata": {"scenario": "general", "text_length": 0, "chunk_count": 0}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(schema, tt.doc)
			require.Error(t, err)

			var validationErr *schemas.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}
