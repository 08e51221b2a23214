package prompt

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxContextChars = 30000
	DefaultInstruction     = "Based on the following content:"
	DefaultQuestionLead    = "Please answer this question:"
)

type BuilderConfig struct {
	MaxContextChars int
	Instruction     string
	QuestionLead    string
}

// Builder assembles the single prompt sent to the answer generator.
// Document text beyond MaxContextChars is dropped; there is no chunking.
type Builder struct {
	config BuilderConfig
}

func NewWithConfig(config BuilderConfig) Builder {
	if config.MaxContextChars <= 0 {
		config.MaxContextChars = DefaultMaxContextChars
	}
	if config.Instruction == "" {
		config.Instruction = DefaultInstruction
	}
	if config.QuestionLead == "" {
		config.QuestionLead = DefaultQuestionLead
	}
	return Builder{config: config}
}

func (b Builder) MaxContextChars() int {
	return b.config.MaxContextChars
}

func (b Builder) Build(documentText, question string) string {
	excerpt := Truncate(documentText, b.config.MaxContextChars)

	var sb strings.Builder
	sb.Grow(len(b.config.Instruction) + len(excerpt) + len(b.config.QuestionLead) + len(question) + 6)
	sb.WriteString(b.config.Instruction)
	sb.WriteString(" \"")
	sb.WriteString(excerpt)
	sb.WriteString("\"\n")
	sb.WriteString(b.config.QuestionLead)
	sb.WriteString(" ")
	sb.WriteString(question)
	return sb.String()
}

// Truncate returns the prefix of text holding at most max characters (runes).
// It never splits a multi-byte rune, and Truncate(Truncate(s, n), n) == Truncate(s, n).
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}

// Chars counts characters the same way Truncate does.
func Chars(text string) int {
	return utf8.RuneCountInString(text)
}
