package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Server.Port),
		})
	}

	// Validate LLM config
	switch c.LLM.Provider {
	case ProviderGoogleAI, ProviderOpenAI:
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.api_key",
				Message: fmt.Sprintf("API key is required for provider %q", c.LLM.Provider),
			})
		}
	case ProviderOllama:
		if c.LLM.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q", c.LLM.Provider),
		})
	}

	if c.LLM.BaseURL != "" {
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid base URL",
			})
		}
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate prompt and upload config
	if c.Prompt.MaxContextChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "prompt.max_context_chars",
			Message: "max_context_chars must be positive",
		})
	}

	if c.Upload.MaxBytes < 1 {
		errors = append(errors, ValidationError{
			Field:   "upload.max_bytes",
			Message: "max_bytes must be positive",
		})
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		errors = append(errors, ValidationError{
			Field:   "rate_limit",
			Message: "rps and burst must not be negative",
		})
	}

	// Validate client config
	if c.Client.Theme != "light" && c.Client.Theme != "dark" {
		errors = append(errors, ValidationError{
			Field:   "client.theme",
			Message: fmt.Sprintf("theme must be light or dark, got %q", c.Client.Theme),
		})
	}

	return errors
}

// ValidateClient checks only what the chat client needs; it never requires an LLM credential.
func (c *Config) ValidateClient() []ValidationError {
	var errors []ValidationError

	if u, err := url.Parse(c.Client.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "client.server_url",
			Message: "invalid server URL",
		})
	}

	if c.Client.Theme != "light" && c.Client.Theme != "dark" {
		errors = append(errors, ValidationError{
			Field:   "client.theme",
			Message: fmt.Sprintf("theme must be light or dark, got %q", c.Client.Theme),
		})
	}

	return errors
}
