package scanner

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading-delimited span of a markdown document.
type Section struct {
	Level   int    `json:"level"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SectionIndex parses a markdown document and returns its sections in order.
// Each section's content runs from the end of its heading to the start of the
// next heading of any level.
func SectionIndex(source []byte) []Section {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	type headingInfo struct {
		level        int
		title        string
		headingStart int
		contentStart int
	}
	var headings []headingInfo

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			lines := heading.Lines()
			headingStart := 0
			contentStart := 0
			if lines.Len() > 0 {
				headingStart = lines.At(0).Start
				contentStart = lines.At(lines.Len() - 1).Stop
			}
			headings = append(headings, headingInfo{
				level:        heading.Level,
				title:        headingText(heading, source),
				headingStart: headingStart,
				contentStart: contentStart,
			})
		}

		return ast.WalkContinue, nil
	})

	sections := make([]Section, 0, len(headings))
	for i, h := range headings {
		contentEnd := len(source)
		if i+1 < len(headings) {
			contentEnd = headings[i+1].headingStart
		}

		content := ""
		if h.contentStart < contentEnd {
			content = strings.TrimSpace(string(source[h.contentStart:contentEnd]))
		}

		sections = append(sections, Section{
			Level:   h.level,
			Title:   h.title,
			Content: content,
		})
	}
	return sections
}

// FindSection returns the first section whose title matches, ignoring case.
// A numbered query like "3.1" also matches a heading such as "3.1 Auth".
func FindSection(sections []Section, title string) *Section {
	query := strings.ToLower(strings.TrimSpace(title))
	if query == "" {
		return nil
	}
	for i := range sections {
		t := strings.ToLower(sections[i].Title)
		if t == query || strings.HasPrefix(t, query+" ") {
			return &sections[i]
		}
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return strings.TrimSpace(buf.String())
}
