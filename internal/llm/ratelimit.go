package llm

import (
	"context"

	"github.com/ppiankov/factlens/internal/worker"
)

// RateLimitedProvider waits for a limiter token, keyed by provider name,
// before every call
type RateLimitedProvider struct {
	next    Provider
	limiter *worker.Limiter
}

// NewRateLimitedProvider wraps next. A nil limiter returns next unchanged.
func NewRateLimitedProvider(next Provider, limiter *worker.Limiter) Provider {
	if limiter == nil {
		return next
	}
	return &RateLimitedProvider{next: next, limiter: limiter}
}

func (p *RateLimitedProvider) Name() string {
	return p.next.Name()
}

func (p *RateLimitedProvider) IsAvailable(ctx context.Context) bool {
	return p.next.IsAvailable(ctx)
}

func (p *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx, p.next.Name()); err != nil {
		return nil, classify(ctx, p.Name(), err)
	}
	return p.next.Complete(ctx, req)
}
