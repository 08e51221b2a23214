package types

import (
	"context"

	"github.com/xhad/docmind/internal/models"
)

// Core interfaces
type Extractor interface {
	Extract(ctx context.Context, data []byte) (models.Document, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

type DocumentStore interface {
	Get() (models.Document, bool)
	Set(doc models.Document)
}

type PromptBuilder interface {
	Build(documentText, question string) string
}
