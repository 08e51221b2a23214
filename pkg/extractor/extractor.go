package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xhad/docmind/internal/models"
)

var (
	ErrEmptyPDF = errors.New("empty PDF payload")
	ErrNotPDF   = errors.New("payload is not a PDF")
)

type ExtractorConfig struct {
	MaxPages      int    // 0 means all pages
	PageSeparator string // inserted between pages that produced text
}

type Extractor struct {
	config ExtractorConfig
}

func NewWithConfig(config ExtractorConfig) *Extractor {
	if config.PageSeparator == "" {
		config.PageSeparator = "\n\n"
	}
	return &Extractor{config: config}
}

func New() *Extractor {
	return NewWithConfig(ExtractorConfig{})
}

// Extract returns the plain text of every page of the PDF in data.
// Pages without text are skipped; a PDF with no text at all yields an empty ExtractedText.
func (e *Extractor) Extract(ctx context.Context, data []byte) (doc models.Document, err error) {
	if len(data) == 0 {
		return models.Document{}, ErrEmptyPDF
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return models.Document{}, ErrNotPDF
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc = models.Document{}
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := reader.NumPage()
	limit := pageCount
	if e.config.MaxPages > 0 && e.config.MaxPages < limit {
		limit = e.config.MaxPages
	}

	var text strings.Builder
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return models.Document{}, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return models.Document{}, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString(e.config.PageSeparator)
		}
		text.WriteString(content)
	}

	return models.Document{
		Pages:         pageCount,
		ExtractedText: text.String(),
	}, nil
}

// IsPDFContentType reports whether a Content-Type header value names a PDF.
func IsPDFContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/pdf", "application/x-pdf":
		return true
	}
	return false
}
