package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrBackend is matched by every error returned from a Provider
var ErrBackend = errors.New("reasoning backend failure")

// FailureKind classifies a backend failure
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureCanceled  FailureKind = "canceled"
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"    // Non-success HTTP status
	FailureEmpty     FailureKind = "empty"     // Success with no usable text
	FailureMalformed FailureKind = "malformed" // Response body did not decode
	FailureConfig    FailureKind = "config"    // Provider misconfigured
)

// BackendError describes a failed completion
type BackendError struct {
	Provider   string
	Kind       FailureKind
	StatusCode int // Set for FailureStatus
	Err        error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" when err is not a backend error
func KindOf(err error) FailureKind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// classify wraps a transport-level error, distinguishing deadlines and
// cancellation from network faults
func classify(ctx context.Context, provider string, err error) *BackendError {
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}

	kind := FailureTransport
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = FailureTimeout
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		kind = FailureCanceled
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	}
	return &BackendError{Provider: provider, Kind: kind, Err: err}
}
