package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/factlens/internal/cache"
	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/pipeline"
	"github.com/ppiankov/factlens/internal/worker"
)

// app is everything a command needs to verify posts
type app struct {
	cfg      *model.Config
	logger   *slog.Logger
	store    *factstore.Store
	provider llm.Provider // nil when no backend is configured
	pipeline *pipeline.Pipeline
}

// newApp loads config and dataset and wires the pipeline. A broken dataset
// is fatal; a misconfigured backend is logged and the pipeline runs on its
// fallback paths.
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Logging, os.Stderr, verbose)
	slog.SetDefault(logger)

	store, err := factstore.Load(cfg.Dataset.Path, factstore.WithTierClassifier(factstore.NewTierClassifier(&cfg.Authority)))
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	stats := store.Stats()
	logger.Info("dataset loaded",
		slog.String("path", cfg.Dataset.Path),
		slog.Int("entities", stats.Entities),
		slog.Int("facts", stats.Facts),
		slog.Int("sources", stats.Sources))

	provider := newProvider(cfg, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		provider: provider,
		pipeline: pipeline.NewFromConfig(cfg, store, provider, logger),
	}, nil
}

// newProvider builds the decorated backend, or nil
func newProvider(cfg *model.Config, logger *slog.Logger) llm.Provider {
	raw, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		logger.Warn("reasoning backend disabled", slog.String("provider", cfg.LLM.Provider), slog.String("error", err.Error()))
		return nil
	}
	if raw == nil {
		logger.Info("no reasoning backend configured; using heuristic extraction and degraded verdicts")
		return nil
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	return llm.Decorate(raw, cache.New(cfg.Cache), cfg.Cache.MemoryTTL, limiter, logger)
}
