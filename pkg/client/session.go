package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xhad/docmind/internal/models"
)

const (
	msgInvalidFile   = "Please select a valid PDF file."
	msgUploadFailed  = "Error uploading PDF. Please try again."
	msgAskFailed     = "Error getting response. Please try again."
	msgUploadSuccess = "PDF %q uploaded successfully! You can now ask questions about it."
)

var (
	ErrBusy          = errors.New("a request is already in progress")
	ErrNoDocument    = errors.New("upload a PDF before asking questions")
	ErrEmptyQuestion = errors.New("question is empty")
	ErrInvalidFile   = errors.New("not a PDF file")
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Backend is the gateway as seen by a session.
type Backend interface {
	Upload(ctx context.Context, filename string, data []byte) (UploadResult, error)
	Ask(ctx context.Context, question string) (string, error)
}

// Session is the state of one chat: the uploaded document name, the
// transcript, the pending input and a busy flag guarding the single
// in-flight request.
type Session struct {
	backend Backend

	mu          sync.Mutex
	document    string
	messages    []models.Message
	input       string
	busy        bool
	theme       Theme
	subscribers []func([]models.Message)
}

func NewSession(backend Backend, theme Theme) *Session {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return &Session{backend: backend, theme: theme}
}

// Subscribe registers fn to receive a snapshot of the transcript after every change.
func (s *Session) Subscribe(fn func([]models.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *Session) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Session) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

// SubmitUpload validates the file at path locally and sends it to the gateway.
func (s *Session) SubmitUpload(ctx context.Context, path string) error {
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil || !isPDF(name, data) {
		s.appendMessage(models.RoleSystem, msgInvalidFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return ErrInvalidFile
	}

	if _, err := s.backend.Upload(ctx, name, data); err != nil {
		s.appendMessage(models.RoleSystem, msgUploadFailed)
		return fmt.Errorf("upload %s: %w", name, err)
	}

	s.mu.Lock()
	s.document = name
	s.mu.Unlock()
	s.appendMessage(models.RoleSystem, fmt.Sprintf(msgUploadSuccess, name))
	return nil
}

// SubmitQuestion appends text as a user message right away, then asks the gateway.
// Blank text, a missing document or a busy session leave the transcript untouched.
func (s *Session) SubmitQuestion(ctx context.Context, text string) error {
	question := strings.TrimSpace(text)
	if question == "" {
		return ErrEmptyQuestion
	}

	s.mu.Lock()
	switch {
	case s.busy:
		s.mu.Unlock()
		return ErrBusy
	case s.document == "":
		s.mu.Unlock()
		return ErrNoDocument
	}
	s.busy = true
	s.input = ""
	s.mu.Unlock()
	defer s.release()

	s.appendMessage(models.RoleUser, question)

	answer, err := s.backend.Ask(ctx, question)
	if err != nil {
		s.appendMessage(models.RoleSystem, msgAskFailed)
		return fmt.Errorf("ask: %w", err)
	}
	s.appendMessage(models.RoleAssistant, answer)
	return nil
}

func (s *Session) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Session) appendMessage(role models.Role, content string) {
	s.mu.Lock()
	s.messages = append(s.messages, models.Message{Role: role, Content: content})
	snapshot := append([]models.Message(nil), s.messages...)
	subscribers := append(([]func([]models.Message))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// isPDF requires both the .pdf extension and a sniffed PDF signature.
func isPDF(name string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return false
	}
	return http.DetectContentType(data) == "application/pdf"
}
