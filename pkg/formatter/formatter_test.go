package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSingleLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Block
	}{
		{
			name:     "heading",
			input:    "**Title**",
			expected: Block{Kind: Heading, Spans: []Span{{Text: "Title"}}},
		},
		{
			name:     "heading with surrounding space",
			input:    "   **Key Findings**  ",
			expected: Block{Kind: Heading, Spans: []Span{{Text: "Key Findings"}}},
		},
		{
			name:     "star bullet",
			input:    "* item one",
			expected: Block{Kind: ListItem, Spans: []Span{{Text: "item one"}}},
		},
		{
			name:  "dash bullet with bold",
			input: "- the **main** point",
			expected: Block{Kind: ListItem, Spans: []Span{
				{Text: "the "},
				{Text: "main", Strong: true},
				{Text: " point"},
			}},
		},
		{
			name:  "labeled",
			input: "NOTES: see **page 4**",
			expected: Block{Kind: Labeled, Label: "NOTES", Spans: []Span{
				{Text: " see "},
				{Text: "page 4", Strong: true},
			}},
		},
		{
			name:     "multi word label with empty remainder",
			input:    "KEY TAKEAWAYS:",
			expected: Block{Kind: Labeled, Label: "KEY TAKEAWAYS"},
		},
		{
			name:  "paragraph with bold",
			input: "Some **bold** word",
			expected: Block{Kind: Paragraph, Spans: []Span{
				{Text: "Some "},
				{Text: "bold", Strong: true},
				{Text: " word"},
			}},
		},
		{
			name:     "paragraph kept verbatim",
			input:    "  indented text ",
			expected: Block{Kind: Paragraph, Spans: []Span{{Text: "  indented text "}}},
		},
		{
			name:     "empty line",
			input:    "",
			expected: Block{Kind: LineBreak},
		},
		{
			name:     "whitespace only line",
			input:    " \t ",
			expected: Block{Kind: LineBreak},
		},
		{
			name:  "two bold runs are not a heading",
			input: "**a** and **b**",
			expected: Block{Kind: Paragraph, Spans: []Span{
				{Text: "a", Strong: true},
				{Text: " and "},
				{Text: "b", Strong: true},
			}},
		},
		{
			name:     "single char label is a paragraph",
			input:    "A: yes",
			expected: Block{Kind: Paragraph, Spans: []Span{{Text: "A: yes"}}},
		},
		{
			name:     "emphasis marker without space is not a bullet",
			input:    "*not a list*",
			expected: Block{Kind: Paragraph, Spans: []Span{{Text: "*not a list*"}}},
		},
		{
			name:     "markup is carried as text",
			input:    "<script>alert(1)</script>",
			expected: Block{Kind: Paragraph, Spans: []Span{{Text: "<script>alert(1)</script>"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Format(tt.input)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.expected, blocks[0])
		})
	}
}

func TestFormatPreservesLineOrder(t *testing.T) {
	input := "**Summary**\nThe report covers **Q3**.\n\nNOTES: draft\n* first\n- second\r\nclosing"

	blocks := Format(input)

	kinds := make([]Kind, 0, len(blocks))
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []Kind{Heading, Paragraph, LineBreak, Labeled, ListItem, ListItem, Paragraph}, kinds)
	assert.Equal(t, "Summary", blocks[0].Text())
	assert.Equal(t, "The report covers Q3.", blocks[1].Text())
	assert.Equal(t, "second", blocks[5].Text())
	assert.Equal(t, "closing", blocks[6].Text())
}

func TestFormatNoMarkup(t *testing.T) {
	blocks := Format("plain one\nplain two")

	require.Len(t, blocks, 2)
	for _, b := range blocks {
		assert.Equal(t, Paragraph, b.Kind)
		require.Len(t, b.Spans, 1)
		assert.False(t, b.Spans[0].Strong)
	}
}

func TestInline(t *testing.T) {
	tests := []struct {
		input    string
		expected []Span
	}{
		{"", nil},
		{"nothing bold", []Span{{Text: "nothing bold"}}},
		{"**all**", []Span{{Text: "all", Strong: true}}},
		{"**a****b**", []Span{{Text: "a", Strong: true}, {Text: "b", Strong: true}}},
		{"x **unclosed", []Span{{Text: "x **unclosed"}}},
		{"**one** **two** three", []Span{
			{Text: "one", Strong: true},
			{Text: " "},
			{Text: "two", Strong: true},
			{Text: " three"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Inline(tt.input))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "heading", Heading.String())
	assert.Equal(t, "list_item", ListItem.String())
	assert.Equal(t, "labeled", Labeled.String())
	assert.Equal(t, "line_break", LineBreak.String())
	assert.Equal(t, "paragraph", Paragraph.String())
}
