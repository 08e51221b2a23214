package models

import "time"

// Document is the text extracted from the most recently uploaded PDF.
type Document struct {
	Name          string
	Pages         int
	ExtractedText string
	UploadedAt    time.Time
}

// HasText reports whether the document holds anything worth asking about.
func (d Document) HasText() bool {
	return d.ExtractedText != ""
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
