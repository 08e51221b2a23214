package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xhad/docmind/internal/types"
	"github.com/xhad/docmind/pkg/metrics"
)

// Config holds the HTTP gateway settings.
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigin   string
	FieldName       string
	MaxUploadBytes  int64
	RateLimitRPS    float64 // 0 disables limiting on /ask
	RateLimitBurst  int
}

// Server exposes upload and ask over HTTP.
type Server struct {
	config    Config
	extractor types.Extractor
	generator types.Generator
	store     types.DocumentStore
	prompts   types.PromptBuilder
	limiter   *rate.Limiter
	logger    *zap.Logger
	http      *http.Server
}

func NewServer(
	config Config,
	extractor types.Extractor,
	generator types.Generator,
	store types.DocumentStore,
	prompts types.PromptBuilder,
	logger *zap.Logger,
) (*Server, error) {
	if extractor == nil || generator == nil || store == nil || prompts == nil {
		return nil, errors.New("server: extractor, generator, store and prompt builder are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.Port == 0 {
		config.Port = 3001
	}
	if config.FieldName == "" {
		config.FieldName = "pdf"
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 20 << 20
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.AllowedOrigin == "" {
		config.AllowedOrigin = "*"
	}

	var limiter *rate.Limiter
	if config.RateLimitRPS > 0 {
		burst := config.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimitRPS), burst)
	}

	return &Server{
		config:    config,
		extractor: extractor,
		generator: generator,
		store:     store,
		prompts:   prompts,
		limiter:   limiter,
		logger:    logger,
	}, nil
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(corsMiddleware(s.config.AllowedOrigin))
	r.Use(metrics.Middleware())

	r.Post("/upload", s.handleUpload)
	r.With(rateLimitMiddleware(s.limiter)).Post("/ask", s.handleAsk)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.http = &http.Server{
		Addr:        addr,
		Handler:     s.Router(),
		ReadTimeout: s.config.ReadTimeout,
		// No WriteTimeout: generation may legitimately take a long time.
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}
