// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/factlens/internal/llm"
)

// Fake answers every call with the result of Respond. It counts calls and
// remembers the last request. Safe for concurrent use.
type Fake struct {
	// Respond produces the reply for a request. A nil Respond answers with Text.
	Respond func(req llm.CompletionRequest) (string, error)

	// Text is the fixed reply used when Respond is nil
	Text string

	// Delay holds each call until it elapses or the context is done
	Delay time.Duration

	// Unavailable makes IsAvailable report false
	Unavailable bool

	mu       sync.Mutex
	calls    int
	requests []llm.CompletionRequest
}

// Reply returns a Fake that always answers text
func Reply(text string) *Fake {
	return &Fake{Text: text}
}

// Fail returns a Fake whose calls fail with a backend error of kind
func Fail(kind llm.FailureKind) *Fake {
	return &Fake{Respond: func(llm.CompletionRequest) (string, error) {
		return "", &llm.BackendError{Provider: "fake", Kind: kind, Err: errors.New("scripted failure")}
	}}
}

// Hang returns a Fake whose calls block until the context is done
func Hang() *Fake {
	return &Fake{Delay: time.Hour}
}

func (f *Fake) Name() string {
	return "fake"
}

func (f *Fake) IsAvailable(ctx context.Context) bool {
	return !f.Unavailable
}

func (f *Fake) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			kind := llm.FailureCanceled
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				kind = llm.FailureTimeout
			}
			return nil, &llm.BackendError{Provider: f.Name(), Kind: kind, Err: ctx.Err()}
		}
	}

	text := f.Text
	if f.Respond != nil {
		var err error
		if text, err = f.Respond(req); err != nil {
			return nil, err
		}
	}
	return &llm.CompletionResponse{Text: text, Model: "fake-model"}, nil
}

// Calls returns how many times Complete was invoked
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastRequest returns the most recent request, if any
func (f *Fake) LastRequest() (llm.CompletionRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return llm.CompletionRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}
