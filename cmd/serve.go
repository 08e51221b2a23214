package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/xhad/docmind/pkg/extractor"
	"github.com/xhad/docmind/pkg/llm"
	logpkg "github.com/xhad/docmind/pkg/logger"
	"github.com/xhad/docmind/pkg/prompt"
	"github.com/xhad/docmind/pkg/store"
	"github.com/xhad/docmind/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP gateway",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Listening port"},
			&cli.StringFlag{Name: "provider", Usage: "LLM provider (googleai, openai, ollama)"},
			&cli.StringFlag{Name: "model", Usage: "LLM model to use"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return validationError(errs)
	}

	logger, err := logpkg.NewLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting docmind gateway",
		zap.String("version", Version),
		zap.String("env", cfg.Logging.Env),
		zap.Int("http_port", cfg.Server.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)

	chatEngine, err := llm.NewWithConfig(ctx, llm.ChatConfig{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %w", err)
	}

	prompts := prompt.NewWithConfig(prompt.BuilderConfig{
		MaxContextChars: cfg.Prompt.MaxContextChars,
		Instruction:     cfg.Prompt.Instruction,
	})

	srv, err := server.NewServer(server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownSec) * time.Second,
		AllowedOrigin:   cfg.Server.AllowedOrigin,
		FieldName:       cfg.Upload.FieldName,
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		RateLimitRPS:    cfg.RateLimit.RPS,
		RateLimitBurst:  cfg.RateLimit.Burst,
	}, extractor.New(), chatEngine, store.NewDocumentStore(), prompts, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return srv.ListenAndServe(ctx)
}
