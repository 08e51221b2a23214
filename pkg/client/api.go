// Package client talks to the docmind gateway and keeps the state of one
// terminal chat session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gateway error %d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("gateway error %d: %s", e.Status, e.Message)
}

// UploadResult mirrors the gateway's upload response.
type UploadResult struct {
	Message    string `json:"message"`
	Name       string `json:"name"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
}

// APIConfig holds the gateway client settings.
type APIConfig struct {
	ServerURL  string
	FieldName  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// API is an HTTP client for the upload and ask endpoints.
type API struct {
	baseURL   string
	fieldName string
	http      *http.Client
}

func NewWithConfig(config APIConfig) (*API, error) {
	if config.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}
	if config.FieldName == "" {
		config.FieldName = "pdf"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &API{
		baseURL:   strings.TrimRight(config.ServerURL, "/"),
		fieldName: config.FieldName,
		http:      httpClient,
	}, nil
}

// Upload sends data as a multipart PDF part named after filename.
func (a *API) Upload(ctx context.Context, filename string, data []byte) (UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, a.fieldName, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/upload", &body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResult
	if err := a.do(req, &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// Ask sends one question and returns the answer text verbatim.
func (a *API) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", fmt.Errorf("encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		Answer string `json:"answer"`
	}
	if err := a.do(req, &result); err != nil {
		return "", err
	}
	return result.Answer, nil
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var parsed struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			apiErr.Message = parsed.Error
			apiErr.Details = parsed.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
