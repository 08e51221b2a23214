package store

import (
	"errors"
	"sync"

	"github.com/xhad/docmind/internal/models"
)

var ErrNoDocument = errors.New("no PDF content available")

// DocumentStore holds the single most recently uploaded document for the
// lifetime of the process. Every Set replaces the previous document in full;
// the last Set to complete wins. There is no delete.
type DocumentStore struct {
	mu  sync.RWMutex
	doc models.Document
	set bool
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Get returns a snapshot of the stored document and whether an upload has ever succeeded.
func (s *DocumentStore) Get() (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.set
}

func (s *DocumentStore) Set(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.set = true
}

// Text returns the stored text, or ErrNoDocument when there is nothing to ask about.
func (s *DocumentStore) Text() (string, error) {
	doc, ok := s.Get()
	if !ok || !doc.HasText() {
		return "", ErrNoDocument
	}
	return doc.ExtractedText, nil
}
