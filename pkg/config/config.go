package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
)

type Config struct {
	Server struct {
		Port           int    `yaml:"port"`
		ReadTimeoutSec int    `yaml:"read_timeout_sec"`
		ShutdownSec    int    `yaml:"shutdown_timeout_sec"`
		AllowedOrigin  string `yaml:"allowed_origin"`
	} `yaml:"server"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		APIKey      string  `yaml:"api_key"`
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Prompt struct {
		MaxContextChars int    `yaml:"max_context_chars"`
		Instruction     string `yaml:"instruction"`
	} `yaml:"prompt"`

	Upload struct {
		FieldName string `yaml:"field_name"`
		MaxBytes  int64  `yaml:"max_bytes"`
	} `yaml:"upload"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Logging struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Client struct {
		ServerURL  string `yaml:"server_url"`
		Theme      string `yaml:"theme"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"client"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables always take precedence.
	_ = godotenv.Load()

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/docmind/config.yaml"),
			"/etc/docmind/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 3001
	}
	if config.Server.ReadTimeoutSec == 0 {
		config.Server.ReadTimeoutSec = 30
	}
	if config.Server.ShutdownSec == 0 {
		config.Server.ShutdownSec = 10
	}
	if config.Server.AllowedOrigin == "" {
		config.Server.AllowedOrigin = "*"
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderGoogleAI
	}
	if config.LLM.Model == "" {
		config.LLM.Model = defaultModel(config.LLM.Provider)
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2048
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" && config.LLM.Provider == ProviderOllama {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Prompt.MaxContextChars == 0 {
		config.Prompt.MaxContextChars = 30000
	}

	if config.Upload.FieldName == "" {
		config.Upload.FieldName = "pdf"
	}
	if config.Upload.MaxBytes == 0 {
		config.Upload.MaxBytes = 20 << 20
	}

	if config.Logging.Env == "" {
		config.Logging.Env = "local"
	}

	if config.Client.ServerURL == "" {
		config.Client.ServerURL = fmt.Sprintf("http://localhost:%d", config.Server.Port)
	}
	if config.Client.Theme == "" {
		config.Client.Theme = "light"
	}
	if config.Client.TimeoutSec == 0 {
		config.Client.TimeoutSec = 120
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "mistral"
	default:
		return "gemini-1.5-flash"
	}
}

func mergeWithEnv(config *Config) {
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = strings.ToLower(provider)
	}
	if key := apiKeyFromEnv(config.LLM.Provider); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && config.LLM.Provider == ProviderOllama {
		config.LLM.BaseURL = baseURL
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logging.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if serverURL := os.Getenv("DOCMIND_SERVER_URL"); serverURL != "" {
		config.Client.ServerURL = serverURL
	}
}

// apiKeyFromEnv prefers the provider-specific variable and falls back to LLM_API_KEY.
func apiKeyFromEnv(provider string) string {
	var key string
	switch provider {
	case ProviderOpenAI:
		key = os.Getenv("OPENAI_API_KEY")
	case ProviderOllama:
	default:
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		key = os.Getenv("LLM_API_KEY")
	}
	return key
}
