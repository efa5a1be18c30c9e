// Package ingest loads review input: plain text, markdown, and HTML
// files, plus URL fetching with an optional headless browser fallback
// for script-rendered pages.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Document is ingested review input: cleaned text plus where it came
// from.
type Document struct {
	Text   string
	Source string
	Format string
}

// Len returns the document length in characters
func (d *Document) Len() int {
	return utf8.RuneCountInString(d.Text)
}

// FromFile reads a document, converting markdown and HTML to review
// text based on the file extension.
func FromFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var text, format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		text = MarkdownToText(content)
		format = "markdown"
	case ".html", ".htm":
		text, err = ExtractDocumentText(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML file %s: %w", path, err)
		}
		format = "html"
	default:
		text = string(content)
		format = "text"
	}

	return &Document{
		Text:   CleanText(text),
		Source: path,
		Format: format,
	}, nil
}

// FromString wraps already-loaded text as a document
func FromString(text string) *Document {
	return &Document{Text: CleanText(text), Format: "text"}
}

var multiSpace = regexp.MustCompile(`[ \t]+`)
var excessBlankLines = regexp.MustCompile(`\n\n\n+`)

// CleanText normalizes text content while preserving structure:
// line endings, trailing whitespace, runs of spaces, and excessive
// blank lines. Markdown headings and bullets keep their markers so
// chapter segmentation still sees them.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = excessBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		// Headings drop their leading indentation
		return trimmed
	}
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	indent := len(line) - len(trimmed)
	content := multiSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	if indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}
