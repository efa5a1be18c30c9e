package ingest

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// MarkdownToText converts markdown to review text. Heading markers are
// kept so chapter segmentation can find them; list items keep a dash;
// code blocks are carried verbatim. YAML frontmatter is dropped.
func MarkdownToText(source []byte) string {
	source = stripFrontmatter(source)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			sb.WriteString(strings.Repeat("#", node.Level))
			sb.WriteString(" ")
			sb.WriteString(nodeText(node, source))
			sb.WriteString("\n\n")
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			sb.WriteString(nodeText(n, source))
			if _, inItem := n.Parent().(*ast.ListItem); inItem {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			sb.WriteString("- ")
			return ast.WalkContinue, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			sb.Write(blockLines(n, source))
			sb.WriteString("\n")
			return ast.WalkSkipChildren, nil
		case *ast.Blockquote:
			return ast.WalkContinue, nil
		case *ast.ThematicBreak:
			sb.WriteString("\n")
			return ast.WalkContinue, nil
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}

// nodeText flattens the inline content of a block node into plain text
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch inline := c.(type) {
			case *ast.Text:
				buf.Write(inline.Segment.Value(source))
				if inline.SoftLineBreak() || inline.HardLineBreak() {
					buf.WriteString("\n")
				}
			case *ast.CodeSpan:
				walk(c)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.String()
}

// blockLines returns the raw source lines of a block node
func blockLines(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.Bytes()
}

// stripFrontmatter removes a leading YAML frontmatter block
func stripFrontmatter(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			return bytes.Join(lines[i+1:], []byte("\n"))
		}
	}
	return content
}
