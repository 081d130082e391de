// Package server exposes verification over HTTP for the browser extension
// and dashboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/model"
)

// Verifier runs one verification
type Verifier interface {
	Verify(ctx context.Context, text string) (*model.Result, error)
}

// StatsSource reports what the loaded dataset contains
type StatsSource interface {
	Stats() factstore.Stats
}

// Server is the FactLens HTTP API
type Server struct {
	verifier Verifier
	stats    StatsSource
	cfg      model.ServerConfig
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the router. Zero config values fall back to the defaults in
// model.DefaultConfig.
func New(verifier Verifier, stats StatsSource, cfg model.ServerConfig, logger *slog.Logger) *Server {
	def := model.DefaultConfig().Server
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = def.AllowedOrigins
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		verifier: verifier,
		stats:    stats,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "server")),
	}

	engine := gin.New()
	engine.Use(requestID(), s.accessLog(), s.recovery(), cors(cfg.AllowedOrigins))
	engine.POST("/verify", s.handleVerify)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = engine

	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
