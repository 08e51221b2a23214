// Package formatter turns the light Markdown-like text produced by the answer
// generator into typed blocks that a renderer walks explicitly. No markup is
// ever produced, so answer text cannot inject anything into the view.
package formatter

import (
	"regexp"
	"strings"
)

type Kind int

const (
	Paragraph Kind = iota
	Heading
	ListItem
	Labeled
	LineBreak
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case ListItem:
		return "list_item"
	case Labeled:
		return "labeled"
	case LineBreak:
		return "line_break"
	default:
		return "paragraph"
	}
}

// Span is a run of text; Strong runs came from **bold** markers.
type Span struct {
	Text   string
	Strong bool
}

// Block is one input line. Label is only set for Labeled blocks and is
// rendered with emphasis followed by a colon.
type Block struct {
	Kind  Kind
	Label string
	Spans []Span
}

// Text returns the block content without emphasis.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var (
	boldPattern  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	listPattern  = regexp.MustCompile(`^[*\-]\s+(.+)$`)
	labelPattern = regexp.MustCompile(`^([A-Z][A-Z\s]+):(.*)$`)
)

// Format splits text into lines and classifies each one independently.
// It is total: every input, including "", yields at least one block.
func Format(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, formatLine(strings.TrimSuffix(line, "\r")))
	}
	return blocks
}

func formatLine(line string) Block {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Block{Kind: LineBreak}
	}

	if inner, ok := heading(trimmed); ok {
		return Block{Kind: Heading, Spans: []Span{{Text: inner}}}
	}

	if m := listPattern.FindStringSubmatch(trimmed); m != nil {
		return Block{Kind: ListItem, Spans: Inline(m[1])}
	}

	if m := labelPattern.FindStringSubmatch(trimmed); m != nil {
		return Block{Kind: Labeled, Label: m[1], Spans: Inline(m[2])}
	}

	return Block{Kind: Paragraph, Spans: Inline(line)}
}

// heading matches a line that is exactly one bold run, e.g. "**Summary**".
func heading(trimmed string) (string, bool) {
	if len(trimmed) < 4 || !strings.HasPrefix(trimmed, "**") || !strings.HasSuffix(trimmed, "**") {
		return "", false
	}
	inner := trimmed[2 : len(trimmed)-2]
	if strings.Contains(inner, "**") {
		return "", false
	}
	return inner, true
}

// Inline converts every **X** into a Strong span, left to right, shortest match first.
// Text between matches is kept verbatim; empty plain runs are omitted.
func Inline(text string) []Span {
	matches := boldPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Strong: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
