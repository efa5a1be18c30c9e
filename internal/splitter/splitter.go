package splitter

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/doc-reviewer/internal/types"
)

// Sentence-terminating punctuation recognized when snapping a window
// edge: East-Asian full stops plus Western terminators.
var sentenceTerminators = map[rune]bool{
	'。': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
}

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Segment partitions text into an ordered sequence of chunks under the
// configured strategy. Empty input yields an empty sequence. Chunk
// Start/End offsets are rune offsets into the original text; identical
// text and configuration always yield identical boundaries and ids.
func Segment(text string, cfg Config) ([]types.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return []types.Chunk{}, nil
	}

	runes := []rune(text)
	var chunks []types.Chunk
	switch cfg.Strategy {
	case StrategyChapter:
		chunks = splitByChapter(text, runes, cfg)
	case StrategyParagraph:
		chunks = splitByParagraph(text, cfg)
	case StrategyFixedSize:
		chunks = splitFixedSize(runes, 0, "", cfg)
	case StrategySemantic:
		chunks = splitSemantic(text, cfg)
	default:
		return nil, &ConfigError{Field: "strategy", Message: "unresolved strategy value"}
	}

	for i := range chunks {
		chunks[i].ID = i
	}
	return chunks, nil
}

// Statistics summarizes a chunk sequence for report metadata. Returns
// nil when there are no chunks.
func Statistics(chunks []types.Chunk, strategy Strategy) *types.ChunkStatistics {
	if len(chunks) == 0 {
		return nil
	}

	total := 0
	minSize := -1
	maxSize := 0
	for _, c := range chunks {
		size := utf8.RuneCountInString(c.Content)
		total += size
		if minSize < 0 || size < minSize {
			minSize = size
		}
		if size > maxSize {
			maxSize = size
		}
	}

	return &types.ChunkStatistics{
		TotalChunks:  len(chunks),
		TotalChars:   total,
		AvgChunkSize: float64(total) / float64(len(chunks)),
		MinChunkSize: minSize,
		MaxChunkSize: maxSize,
		Strategy:     strategy.String(),
	}
}

// boundaryMatch is a chapter heading hit, in rune offsets
type boundaryMatch struct {
	start int
	end   int
	title string
}

// findBoundaries collects heading matches from all compiled patterns,
// ordered by position. When two patterns hit the same offset only the
// first is kept, so a heading never produces an empty chunk.
func findBoundaries(text string, cfg Config) []boundaryMatch {
	var matches []boundaryMatch
	for _, re := range cfg.compiled {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, boundaryMatch{
				start: utf8.RuneCountInString(text[:loc[0]]),
				end:   utf8.RuneCountInString(text[:loc[1]]),
				title: text[loc[0]:loc[1]],
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	deduped := matches[:0]
	lastStart := -1
	for _, m := range matches {
		if m.start == lastStart {
			continue
		}
		deduped = append(deduped, m)
		lastStart = m.start
	}
	return deduped
}

// splitByChapter treats the span between consecutive heading matches as
// one candidate chunk. With zero matches the whole document falls back
// to fixed-size segmentation; oversized candidates are re-segmented by
// the fixed-size strategy with the chapter label carried forward.
func splitByChapter(text string, runes []rune, cfg Config) []types.Chunk {
	matches := findBoundaries(text, cfg)
	if len(matches) == 0 {
		return splitFixedSize(runes, 0, "", cfg)
	}

	var chunks []types.Chunk

	// Text before the first heading still belongs to the document.
	if matches[0].start > 0 {
		head := runes[:matches[0].start]
		if len(head) > cfg.MaxChunkSize {
			chunks = append(chunks, splitFixedSize(head, 0, "", cfg)...)
		} else {
			chunks = append(chunks, types.Chunk{
				Content: string(head),
				Start:   0,
				End:     matches[0].start,
			})
		}
	}

	for i, m := range matches {
		endPos := len(runes)
		if i < len(matches)-1 {
			endPos = matches[i+1].start
		}
		content := runes[m.start:endPos]
		title := strings.TrimSpace(m.title)

		if len(content) > cfg.MaxChunkSize {
			chunks = append(chunks, splitFixedSize(content, m.start, title, cfg)...)
		} else {
			chunks = append(chunks, types.Chunk{
				Content: string(content),
				Chapter: title,
				Start:   m.start,
				End:     endPos,
			})
		}
	}
	return chunks
}

// splitFixedSize advances a MaxChunkSize window over runes, snapping
// each window's right edge back to a natural boundary. Consecutive
// windows overlap by cfg.Overlap runes; the final window ends exactly
// at the text's end. base shifts Start/End into original-text offsets
// when re-segmenting an inner span.
func splitFixedSize(runes []rune, base int, chapter string, cfg Config) []types.Chunk {
	var chunks []types.Chunk
	start := 0
	for start < len(runes) {
		end := start + cfg.MaxChunkSize
		if end < len(runes) {
			end = snapBoundary(runes, start, end)
		} else {
			end = len(runes)
		}

		chunks = append(chunks, types.Chunk{
			Content: string(runes[start:end]),
			Chapter: chapter,
			Start:   base + start,
			End:     base + end,
		})

		if end >= len(runes) {
			break
		}
		next := end - cfg.Overlap
		if next <= start {
			// The snapped window is shorter than the overlap; give up
			// the overlap for this step so the scan always advances.
			next = end
		}
		start = next
	}
	return chunks
}

// snapBoundary pulls a window's right edge back to the nearest
// preceding sentence terminator, else blank-paragraph boundary, else
// space, else leaves it unchanged. Returned position is in (start, end].
func snapBoundary(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if sentenceTerminators[runes[i]] {
			return i + 1
		}
	}
	for i := end - 2; i > start; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}
	for i := end - 1; i > start; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}

// paragraph is a blank-line-delimited span, trimmed, in rune offsets
type paragraph struct {
	content string
	start   int
	end     int
}

func parseParagraphs(text string) []paragraph {
	seps := paragraphSep.FindAllStringIndex(text, -1)

	var paras []paragraph
	prev := 0
	emit := func(lo, hi int) {
		raw := text[lo:hi]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return
		}
		lo += len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
		hi -= len(raw) - len(strings.TrimRight(raw, " \t\r\n"))
		paras = append(paras, paragraph{
			content: text[lo:hi],
			start:   utf8.RuneCountInString(text[:lo]),
			end:     utf8.RuneCountInString(text[:hi]),
		})
	}

	for _, sep := range seps {
		emit(prev, sep[0])
		prev = sep[1]
	}
	emit(prev, len(text))
	return paras
}

// splitByParagraph greedily packs consecutive paragraphs into a running
// chunk until the next paragraph would exceed MaxChunkSize. A single
// oversized paragraph stands alone without being force-split.
func splitByParagraph(text string, cfg Config) []types.Chunk {
	paras := parseParagraphs(text)

	var chunks []types.Chunk
	var current strings.Builder
	curLen := 0
	curStart, curEnd := 0, 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, types.Chunk{
			Content: current.String(),
			Start:   curStart,
			End:     curEnd,
		})
		current.Reset()
		curLen = 0
	}

	for _, p := range paras {
		pLen := utf8.RuneCountInString(p.content)
		if curLen+pLen > cfg.MaxChunkSize && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
			curLen += 2
		} else {
			curStart = p.start
		}
		current.WriteString(p.content)
		curLen += pLen
		curEnd = p.end
	}
	flush()
	return chunks
}

// splitSemantic re-packs the paragraph strategy's output with the same
// size-bounded greedy packing; a composition, not an independent scan.
// Paragraph chunks that alone exceed MaxChunkSize are re-segmented by
// the fixed-size strategy.
func splitSemantic(text string, cfg Config) []types.Chunk {
	paraChunks := splitByParagraph(text, cfg)

	var chunks []types.Chunk
	var current strings.Builder
	curLen := 0
	curStart, curEnd := 0, 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, types.Chunk{
			Content: current.String(),
			Start:   curStart,
			End:     curEnd,
		})
		current.Reset()
		curLen = 0
	}

	for _, pc := range paraChunks {
		pcLen := utf8.RuneCountInString(pc.Content)
		switch {
		case curLen+pcLen <= cfg.MaxChunkSize:
			if current.Len() > 0 {
				current.WriteString("\n\n")
				curLen += 2
			} else {
				curStart = pc.Start
			}
			current.WriteString(pc.Content)
			curLen += pcLen
			curEnd = pc.End
		case pcLen > cfg.MaxChunkSize:
			flush()
			chunks = append(chunks, splitFixedSize([]rune(pc.Content), pc.Start, "", cfg)...)
		default:
			flush()
			current.WriteString(pc.Content)
			curLen = pcLen
			curStart = pc.Start
			curEnd = pc.End
		}
	}
	flush()
	return chunks
}
