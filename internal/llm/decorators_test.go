package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/factlens/internal/cache"
	"github.com/ppiankov/factlens/internal/worker"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	text      string
	err       error
	delay     time.Duration
	honorCtx  bool // Return ctx.Err() when ctx ends during the delay
	calls     int32
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		if !m.honorCtx {
			time.Sleep(m.delay)
		} else {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &CompletionResponse{Text: m.text, Model: "mock"}, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func (m *MockProvider) callCount() int {
	return int(atomic.LoadInt32(&m.calls))
}

func TestCachingProvider_ReplaysIdenticalRequests(t *testing.T) {
	mock := &MockProvider{name: "mock", text: `{"label":"True"}`}
	p := NewCachingProvider(mock, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()
	req := CompletionRequest{System: "s", Prompt: "p", JSON: true}

	first, err := p.Complete(ctx, req)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if first.Cached {
		t.Error("first response should not be cached")
	}

	second, err := p.Complete(ctx, req)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !second.Cached || second.Text != first.Text {
		t.Errorf("expected cached replay of %q, got %+v", first.Text, second)
	}

	if _, err := p.Complete(ctx, CompletionRequest{System: "s", Prompt: "other", JSON: true}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if mock.callCount() != 2 {
		t.Errorf("expected 2 backend calls, got %d", mock.callCount())
	}
}

func TestCachingProvider_CallerCancelDoesNotFailOthers(t *testing.T) {
	mock := &MockProvider{name: "mock", text: "ok", delay: 200 * time.Millisecond, honorCtx: true}
	p := NewCachingProvider(mock, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	req := CompletionRequest{System: "s", Prompt: "p"}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Complete(firstCtx, req)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type outcome struct {
		resp *CompletionResponse
		err  error
	}
	second := make(chan outcome, 1)
	go func() {
		resp, err := p.Complete(context.Background(), req)
		second <- outcome{resp, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller: expected context.Canceled, got %v", err)
	}

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller inherited cancellation: %v", got.err)
	}
	if got.resp.Text != "ok" {
		t.Errorf("expected shared reply, got %q", got.resp.Text)
	}
	if mock.callCount() != 1 {
		t.Errorf("expected 1 backend call, got %d", mock.callCount())
	}
}

func TestCachingProvider_DoesNotCacheFailures(t *testing.T) {
	mock := &MockProvider{name: "mock", err: &BackendError{Provider: "mock", Kind: FailureStatus, StatusCode: 503}}
	p := NewCachingProvider(mock, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := p.Complete(context.Background(), CompletionRequest{Prompt: "p"}); !errors.Is(err, ErrBackend) {
			t.Fatalf("expected backend error, got %v", err)
		}
	}
	if mock.callCount() != 2 {
		t.Errorf("expected failures to reach the backend every time, got %d calls", mock.callCount())
	}
}

func TestCachingProvider_CollapsesConcurrentCalls(t *testing.T) {
	mock := &MockProvider{name: "mock", text: "answer", delay: 50 * time.Millisecond}
	p := NewCachingProvider(mock, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := p.Complete(context.Background(), CompletionRequest{Prompt: "same"})
			if err != nil || resp.Text != "answer" {
				t.Errorf("unexpected result: %v %v", resp, err)
			}
		}()
	}
	wg.Wait()

	if mock.callCount() != 1 {
		t.Errorf("expected 1 backend call, got %d", mock.callCount())
	}
}

func TestNewCachingProvider_NilCache(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	if p := NewCachingProvider(mock, nil, time.Minute); p != Provider(mock) {
		t.Error("expected nil cache to return the provider unchanged")
	}
}

func TestRateLimitedProvider(t *testing.T) {
	mock := &MockProvider{name: "mock", text: "ok"}
	limiter := worker.NewLimiter(0.01, 1)
	p := NewRateLimitedProvider(mock, limiter)

	if _, err := p.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Complete(ctx, CompletionRequest{Prompt: "p"})
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected backend error once the limiter blocks past the deadline, got %v", err)
	}
	if mock.callCount() != 1 {
		t.Errorf("expected 1 backend call, got %d", mock.callCount())
	}
}

func TestDecorate(t *testing.T) {
	if Decorate(nil, nil, 0, nil, nil) != nil {
		t.Error("expected nil provider to stay nil")
	}

	mock := &MockProvider{name: "mock", text: "ok", available: true}
	p := Decorate(mock, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, worker.NewLimiter(0, 1), nil)

	if p.Name() != "mock" {
		t.Errorf("expected wrapped name mock, got %s", p.Name())
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("expected availability to pass through")
	}

	for i := 0; i < 3; i++ {
		if _, err := p.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}
	if mock.callCount() != 1 {
		t.Errorf("expected cache to absorb repeats, got %d calls", mock.callCount())
	}
}
