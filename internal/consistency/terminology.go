package consistency

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/doc-reviewer/internal/types"
)

// Term candidate patterns: latin identifiers, Chinese compounds with a
// technical suffix, and mixed latin-Chinese names like product or
// system labels.
var termPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*[ \t]?\p{Han}{2,6}?`),
	regexp.MustCompile(`[A-Za-z]{2,}[A-Za-z0-9]*`),
	regexp.MustCompile(`\p{Han}{2,}(?:系统|技术|方法|方案)`),
}

var nonTermChars = regexp.MustCompile(`[^a-z0-9\p{Han}]`)

// extractTerms pulls candidate terms out of one chunk's content,
// deduplicated, keeping only candidates longer than two runes
func extractTerms(text string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, pattern := range termPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if len([]rune(match)) <= 2 || seen[match] {
				continue
			}
			seen[match] = true
			terms = append(terms, match)
		}
	}
	return terms
}

// normalizeTerm maps surface variants of the same term to one key:
// case folded, punctuation and spacing removed
func normalizeTerm(term string) string {
	return nonTermChars.ReplaceAllString(strings.ToLower(term), "")
}

// checkTerminology flags terms that appear in more than one surface
// form across chunks. This check is purely lexical and needs no
// gateway call.
func checkTerminology(chunks []types.Chunk) *types.CheckResult {
	result := &types.CheckResult{
		Findings:        []types.Finding{},
		CriticalIssues:  []types.Finding{},
		Recommendations: []string{},
	}

	type occurrence struct {
		chunkID int
		surface string
	}
	variations := map[string][]occurrence{}
	for _, chunk := range chunks {
		for _, term := range extractTerms(chunk.Content) {
			key := normalizeTerm(term)
			if key == "" {
				continue
			}
			variations[key] = append(variations[key], occurrence{chunkID: chunk.ID, surface: term})
		}
	}

	keys := make([]string, 0, len(variations))
	for key := range variations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		occurrences := variations[key]
		surfaces := map[string]bool{}
		for _, occ := range occurrences {
			surfaces[occ.surface] = true
		}
		if len(surfaces) < 2 {
			continue
		}

		forms := make([]string, 0, len(surfaces))
		for surface := range surfaces {
			forms = append(forms, surface)
		}
		sort.Strings(forms)

		locations := make([]string, len(occurrences))
		for i, occ := range occurrences {
			locations[i] = fmt.Sprintf("chunk %d", occ.chunkID)
		}

		result.Findings = append(result.Findings, types.Finding{
			ChunkID:     types.GlobalChunkID,
			Kind:        types.KindTerminology,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("term %q appears in conflicting forms: %s", key, strings.Join(forms, ", ")),
			Location:    strings.Join(locations, ", "),
			Suggestion:  fmt.Sprintf("use %q as the standard form throughout", preferredForm(forms)),
			Confidence:  0.8,
		})
	}

	if len(result.Findings) > 0 {
		result.Recommendations = append(result.Recommendations,
			"Create a terminology glossary to keep term usage consistent across the document")
	}
	return result
}

// preferredForm picks the longest surface form; ties break toward the
// lexicographically first so the suggestion is stable
func preferredForm(forms []string) string {
	best := forms[0]
	for _, form := range forms[1:] {
		if len([]rune(form)) > len([]rune(best)) {
			best = form
		}
	}
	return best
}
