package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/ppiankov/factlens/internal/cache"
	"github.com/ppiankov/factlens/internal/metrics"
	"github.com/ppiankov/factlens/internal/worker"
)

// InstrumentedProvider records call outcomes and latency
type InstrumentedProvider struct {
	next   Provider
	logger *slog.Logger
}

// NewInstrumentedProvider wraps next. A nil logger uses slog.Default().
func NewInstrumentedProvider(next Provider, logger *slog.Logger) *InstrumentedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedProvider{next: next, logger: logger}
}

func (p *InstrumentedProvider) Name() string {
	return p.next.Name()
}

func (p *InstrumentedProvider) IsAvailable(ctx context.Context) bool {
	return p.next.IsAvailable(ctx)
}

func (p *InstrumentedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()
	resp, err := p.next.Complete(ctx, req)
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = string(FailureTransport)
		}
		p.logger.Debug("backend call failed",
			slog.String("provider", p.Name()),
			slog.String("kind", outcome),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
	case resp.Cached:
		outcome = "cached"
	}
	metrics.RecordBackendCall(p.Name(), outcome, elapsed)

	return resp, err
}

// Decorate stacks the standard wrappers around a raw provider: metrics
// outermost, then the completion cache, then rate limiting. Cache hits
// therefore consume no rate-limit tokens. A nil provider stays nil.
func Decorate(p Provider, c cache.Cache, ttl time.Duration, limiter *worker.Limiter, logger *slog.Logger) Provider {
	if p == nil {
		return nil
	}
	p = NewRateLimitedProvider(p, limiter)
	p = NewCachingProvider(p, c, ttl)
	return NewInstrumentedProvider(p, logger)
}
