package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/factlens/internal/cache"
)

// sharedCallTimeout bounds a backend call shared by concurrent callers.
// The call outlives any single caller, so it cannot inherit their deadlines.
const sharedCallTimeout = 30 * time.Second

// CachingProvider replays completions for identical requests and collapses
// concurrent identical requests into one backend call. Only successful
// completions are stored.
type CachingProvider struct {
	next        Provider
	cache       cache.Cache
	ttl         time.Duration
	callTimeout time.Duration
	group       singleflight.Group
}

type cachedCompletion struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// NewCachingProvider wraps next. A nil cache returns next unchanged.
func NewCachingProvider(next Provider, c cache.Cache, ttl time.Duration) Provider {
	if c == nil {
		return next
	}
	return &CachingProvider{next: next, cache: c, ttl: ttl, callTimeout: sharedCallTimeout}
}

func (p *CachingProvider) Name() string {
	return p.next.Name()
}

func (p *CachingProvider) IsAvailable(ctx context.Context) bool {
	return p.next.IsAvailable(ctx)
}

func (p *CachingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := cache.CacheKey(p.next.Name(), req.Model, req.System, req.Prompt,
		strconv.FormatBool(req.JSON), strconv.Itoa(req.MaxTokens))

	if resp, ok := p.lookup(key); ok {
		return resp, nil
	}

	// Each caller stops waiting when its own ctx ends; the shared call keeps
	// going for the others and only carries ctx values.
	ch := p.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.callTimeout)
		defer cancel()

		resp, err := p.next.Complete(callCtx, req)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(cachedCompletion{Text: resp.Text, Model: resp.Model}); err == nil {
			_ = p.cache.Set(key, data, p.ttl)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, classify(ctx, p.Name(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		resp := *res.Val.(*CompletionResponse)
		return &resp, nil
	}
}

func (p *CachingProvider) lookup(key string) (*CompletionResponse, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var c cachedCompletion
	if err := json.Unmarshal(data, &c); err != nil || c.Text == "" {
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &CompletionResponse{Text: c.Text, Model: c.Model, Cached: true}, true
}
