package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/doc-reviewer/internal/types"
)

const (
	// defaultHeuristicScore is assumed when no score-like phrase is
	// found in an unstructured reply
	defaultHeuristicScore   = 75
	maxHeuristicSuggestions = 5
	summaryTruncateRunes    = 200
)

// Analysis is an interpreted analysis reply. Origin records whether it
// came from the structured parse or the heuristic fallback, so callers
// can distinguish confidence of origin without losing the committed
// fallback behavior.
type Analysis struct {
	Score       float64
	Findings    []types.Finding
	Suggestions []string
	Summary     string
	Origin      types.AnalysisOrigin
	Raw         string
}

type structuredIssue struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Suggestion  string   `json:"suggestion"`
	Confidence  *float64 `json:"confidence"`
}

type structuredReply struct {
	OverallScore *float64          `json:"overall_score"`
	Score        *float64          `json:"score"`
	Issues       []structuredIssue `json:"issues"`
	Suggestions  []string          `json:"suggestions"`
	Summary      string            `json:"summary"`
}

// ParseAnalysis interprets a raw gateway reply. The reply is first
// attempted as a structured JSON result; failing that, a degraded
// heuristic pass extracts a best-effort score, findings, and
// suggestions from the raw text. Silent information loss over a crash
// is the committed trade-off here: this never fails.
func ParseAnalysis(raw string) *Analysis {
	analysis, err := parseStructured(raw)
	if err != nil {
		return heuristicAnalysis(raw)
	}
	return analysis
}

// parseStructured interprets the reply as the structured review shape,
// returning a ParseError when it is not
func parseStructured(raw string) (*Analysis, error) {
	cleaned := CleanJSONBlock(raw)

	var reply structuredReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &ParseError{Message: "reply is not valid JSON", Cause: err}
	}
	if !structuredUsable(reply) {
		return nil, &ParseError{Message: "reply JSON is not a review result"}
	}
	return structuredAnalysis(reply, raw), nil
}

// structuredUsable guards against replies that are valid JSON but not
// the review shape (e.g. an empty object)
func structuredUsable(reply structuredReply) bool {
	return reply.OverallScore != nil || reply.Score != nil ||
		len(reply.Issues) > 0 || len(reply.Suggestions) > 0 || reply.Summary != ""
}

func structuredAnalysis(reply structuredReply, raw string) *Analysis {
	score := float64(defaultHeuristicScore)
	switch {
	case reply.OverallScore != nil:
		score = clampScore(*reply.OverallScore)
	case reply.Score != nil:
		score = clampScore(*reply.Score)
	}

	findings := make([]types.Finding, 0, len(reply.Issues))
	for _, issue := range reply.Issues {
		confidence := 1.0
		if issue.Confidence != nil {
			confidence = clampConfidence(*issue.Confidence)
		}
		severity := types.Severity(issue.Severity)
		if !severity.Valid() {
			severity = types.SeverityMedium
		}
		kind := types.FindingKind(issue.Type)
		if kind == "" {
			kind = types.KindGeneral
		}
		findings = append(findings, types.Finding{
			Kind:        kind,
			Severity:    severity,
			Description: issue.Description,
			Location:    issue.Location,
			Suggestion:  issue.Suggestion,
			Confidence:  confidence,
		})
	}

	return &Analysis{
		Score:       score,
		Findings:    findings,
		Suggestions: reply.Suggestions,
		Summary:     reply.Summary,
		Origin:      types.OriginStructured,
		Raw:         raw,
	}
}

func heuristicAnalysis(raw string) *Analysis {
	return &Analysis{
		Score:       extractScore(raw),
		Findings:    extractFindings(raw),
		Suggestions: extractSuggestions(raw),
		Summary:     truncateSummary(raw),
		Origin:      types.OriginHeuristic,
		Raw:         raw,
	}
}

// Recognized score-like phrases, tried in order
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`评分[：:]?\s*(\d+)`),
	regexp.MustCompile(`得分[：:]?\s*(\d+)`),
	regexp.MustCompile(`(?i)score[：:]?\s*(\d+)`),
	regexp.MustCompile(`(\d+)分`),
	regexp.MustCompile(`(\d+)/100`),
}

// extractScore pulls a score from free text, defaulting to 75
func extractScore(text string) float64 {
	for _, pattern := range scorePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if score, err := strconv.ParseFloat(m[1], 64); err == nil {
				return clampScore(score)
			}
		}
	}
	return defaultHeuristicScore
}

var issueKeywords = []string{
	"问题", "错误", "不一致", "建议", "修改",
	"issue", "error", "problem", "inconsistent",
}

// extractFindings turns lines containing problem-indicating keywords
// into medium-severity, half-confidence findings
func extractFindings(text string) []types.Finding {
	findings := []types.Finding{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range issueKeywords {
			if strings.Contains(lower, keyword) {
				findings = append(findings, types.Finding{
					Kind:        types.KindGeneral,
					Severity:    types.SeverityMedium,
					Description: line,
					Confidence:  0.5,
				})
				break
			}
		}
	}
	return findings
}

var suggestionKeywords = []string{
	"建议", "推荐", "可以", "应该", "最好",
	"suggest", "recommend", "should", "consider",
}

// extractSuggestions collects up to five recommendation-bearing lines
func extractSuggestions(text string) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 10 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range suggestionKeywords {
			if strings.Contains(lower, keyword) {
				suggestions = append(suggestions, line)
				break
			}
		}
		if len(suggestions) >= maxHeuristicSuggestions {
			break
		}
	}
	return suggestions
}

func truncateSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryTruncateRunes {
		return text
	}
	return string(runes[:summaryTruncateRunes]) + "..."
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// CleanJSONBlock removes markdown code block wrappers from JSON
// replies. Models often wrap JSON in ```json fences even when
// instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
