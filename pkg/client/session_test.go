package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/docmind/internal/models"
)

type fakeBackend struct {
	mu        sync.Mutex
	uploads   []string
	questions []string
	answer    string
	uploadErr error
	askErr    error
	// onAsk runs inside Ask before it returns.
	onAsk func()
}

func (f *fakeBackend) Upload(_ context.Context, filename string, _ []byte) (UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	if f.uploadErr != nil {
		return UploadResult{}, f.uploadErr
	}
	return UploadResult{Name: filename, Pages: 1}, nil
}

func (f *fakeBackend) Ask(_ context.Context, question string) (string, error) {
	f.mu.Lock()
	f.questions = append(f.questions, question)
	hook := f.onAsk
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.answer, f.askErr
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func pdfFile(t *testing.T) string {
	return writeFile(t, "report.pdf", []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\n"))
}

func TestSubmitUpload(t *testing.T) {
	backend := &fakeBackend{}
	s := NewSession(backend, ThemeLight)

	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))

	assert.Equal(t, "report.pdf", s.Document())
	assert.Equal(t, []string{"report.pdf"}, backend.uploads)
	assert.Equal(t, []models.Message{{
		Role:    models.RoleSystem,
		Content: `PDF "report.pdf" uploaded successfully! You can now ask questions about it.`,
	}}, s.Messages())
	assert.False(t, s.Busy())
}

func TestSubmitUploadRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "wrong extension", file: "notes.txt", data: []byte("%PDF-1.4")},
		{name: "wrong content", file: "fake.pdf", data: []byte("just text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			s := NewSession(backend, ThemeLight)

			err := s.SubmitUpload(context.Background(), writeFile(t, tt.file, tt.data))
			assert.ErrorIs(t, err, ErrInvalidFile)
			assert.Empty(t, backend.uploads)
			assert.Empty(t, s.Document())
			assert.Equal(t, []models.Message{{Role: models.RoleSystem, Content: "Please select a valid PDF file."}}, s.Messages())
		})
	}
}

func TestSubmitUploadFailure(t *testing.T) {
	backend := &fakeBackend{uploadErr: errors.New("connection refused")}
	s := NewSession(backend, ThemeLight)

	err := s.SubmitUpload(context.Background(), pdfFile(t))
	assert.Error(t, err)
	assert.Empty(t, s.Document())
	assert.Equal(t, "Error uploading PDF. Please try again.", s.Messages()[0].Content)
	assert.False(t, s.Busy())
}

func TestSubmitQuestion(t *testing.T) {
	backend := &fakeBackend{answer: "It is about **sales**."}
	s := NewSession(backend, ThemeLight)
	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))

	// The user message must already be visible while the request is in flight.
	backend.onAsk = func() {
		msgs := s.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, models.Message{Role: models.RoleUser, Content: "What is it about?"}, msgs[1])
		assert.True(t, s.Busy())
	}

	s.SetInput("What is it about?")
	require.NoError(t, s.SubmitQuestion(context.Background(), s.Input()))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, models.Message{Role: models.RoleAssistant, Content: "It is about **sales**."}, msgs[2])
	assert.Empty(t, s.Input())
	assert.False(t, s.Busy())
}

func TestSubmitQuestionFailureAllowsRetry(t *testing.T) {
	backend := &fakeBackend{askErr: errors.New("500")}
	s := NewSession(backend, ThemeLight)
	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))

	assert.Error(t, s.SubmitQuestion(context.Background(), "first"))
	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "first"}, msgs[1])
	assert.Equal(t, models.Message{Role: models.RoleSystem, Content: "Error getting response. Please try again."}, msgs[2])
	assert.False(t, s.Busy())

	backend.askErr = nil
	backend.answer = "ok"
	require.NoError(t, s.SubmitQuestion(context.Background(), "second"))
	assert.Len(t, s.Messages(), 5)
}

func TestSubmitQuestionNoOps(t *testing.T) {
	backend := &fakeBackend{answer: "ok"}
	s := NewSession(backend, ThemeLight)

	assert.ErrorIs(t, s.SubmitQuestion(context.Background(), "before upload"), ErrNoDocument)

	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))
	assert.ErrorIs(t, s.SubmitQuestion(context.Background(), "   "), ErrEmptyQuestion)

	assert.Len(t, s.Messages(), 1)
	assert.Empty(t, backend.questions)
}

func TestSubmitWhileBusy(t *testing.T) {
	backend := &fakeBackend{answer: "ok"}
	s := NewSession(backend, ThemeLight)
	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))

	var nestedQuestion, nestedUpload error
	backend.onAsk = func() {
		nestedQuestion = s.SubmitQuestion(context.Background(), "second")
		nestedUpload = s.SubmitUpload(context.Background(), pdfFile(t))
	}
	require.NoError(t, s.SubmitQuestion(context.Background(), "first"))

	assert.ErrorIs(t, nestedQuestion, ErrBusy)
	assert.ErrorIs(t, nestedUpload, ErrBusy)
	assert.Equal(t, []string{"first"}, backend.questions)
	assert.Len(t, backend.uploads, 1)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	backend := &fakeBackend{answer: "answer"}
	s := NewSession(backend, ThemeLight)

	var lengths []int
	s.Subscribe(func(msgs []models.Message) { lengths = append(lengths, len(msgs)) })

	require.NoError(t, s.SubmitUpload(context.Background(), pdfFile(t)))
	require.NoError(t, s.SubmitQuestion(context.Background(), "q"))

	assert.Equal(t, []int{1, 2, 3}, lengths)
}

func TestToggleTheme(t *testing.T) {
	s := NewSession(&fakeBackend{}, "")
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, ThemeDark, s.ToggleTheme())
	assert.Equal(t, ThemeLight, s.ToggleTheme())
}
