package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/docmind/pkg/extractor"
	logpkg "github.com/xhad/docmind/pkg/logger"
	"github.com/xhad/docmind/pkg/metrics"
	"github.com/xhad/docmind/pkg/prompt"
)

const multipartMemory = 32 << 20

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type uploadResponse struct {
	Message    string `json:"message"`
	Name       string `json:"name"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type healthResponse struct {
	Status         string `json:"status"`
	DocumentLoaded bool   `json:"document_loaded"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > s.config.MaxUploadBytes {
			metrics.UploadsTotal.WithLabelValues("too_large").Inc()
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "PDF exceeds the upload size limit",
			})
			return
		}
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No PDF file uploaded"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(s.config.FieldName)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No PDF file uploaded"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !extractor.IsPDFContentType(contentType) {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{
			Error:   "Only PDF files are accepted",
			Details: "content type " + contentType,
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Error reading upload", zap.Error(err))
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Error processing PDF",
			Details: err.Error(),
		})
		return
	}

	doc, err := s.extractor.Extract(r.Context(), data)
	if err != nil {
		log.Error("Error processing PDF",
			zap.String("name", header.Filename),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Error processing PDF",
			Details: err.Error(),
		})
		return
	}

	doc.Name = filepath.Base(header.Filename)
	doc.UploadedAt = time.Now()
	s.store.Set(doc)

	chars := prompt.Chars(doc.ExtractedText)
	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.DocumentCharacters.Set(float64(chars))
	log.Info("PDF processed",
		zap.String("name", doc.Name),
		zap.Int("pages", doc.Pages),
		zap.Int("characters", chars))

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:    "PDF uploaded and processed successfully",
		Name:       doc.Name,
		Pages:      doc.Pages,
		Characters: chars,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.AsksTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	doc, ok := s.store.Get()
	if !ok || !doc.HasText() {
		metrics.AsksTotal.WithLabelValues("no_document").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No PDF content available"})
		return
	}

	start := time.Now()
	answer, err := s.generator.Generate(r.Context(), s.prompts.Build(doc.ExtractedText, req.Question))
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("Error generating response",
			zap.String("model", s.generator.Model()),
			zap.Error(err))
		metrics.AsksTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:      "Error generating response",
			Details:    err.Error(),
			Suggestion: "Check the provider credential and model, then try again.",
		})
		return
	}

	metrics.AsksTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	doc, ok := s.store.Get()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		DocumentLoaded: ok && doc.HasText(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
