// Package extract turns a social-media post into the single claim the
// pipeline verifies.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/metrics"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/util"
)

// ErrExtractionUnavailable is returned when a post has no visible text
var ErrExtractionUnavailable = errors.New("claim extraction unavailable")

const systemPrompt = "You extract checkable factual claims from social media posts. You never add facts that are not in the post."

// noClaim is the answer the backend is told to give for posts without a claim
const noClaim = "NONE"

// Options configures the extractor
type Options struct {
	Timeout       time.Duration // Bound on the reasoning call, default 3s
	MaxClaimChars int           // Longest accepted claim, default 500
	Logger        *slog.Logger
}

// DefaultOptions mirrors the extraction defaults in model.DefaultConfig
func DefaultOptions() Options {
	return Options{Timeout: 3 * time.Second, MaxClaimChars: 500}
}

// OptionsFromConfig converts the extraction config section
func OptionsFromConfig(cfg model.ExtractionConfig, logger *slog.Logger) Options {
	return Options{Timeout: cfg.Timeout, MaxClaimChars: cfg.MaxClaimChars, Logger: logger}
}

// ClaimExtractor asks the reasoning backend for the post's main claim and
// falls back to Heuristic whenever that answer is missing or unusable
type ClaimExtractor struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

// NewClaimExtractor creates an extractor. A nil provider always uses the
// heuristic.
func NewClaimExtractor(provider llm.Provider, opts Options) *ClaimExtractor {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxClaimChars <= 0 {
		opts.MaxClaimChars = def.MaxClaimChars
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaimExtractor{provider: provider, opts: opts, logger: logger.With(slog.String("component", "extract"))}
}

// Extract returns the claim for post. The only error is
// ErrExtractionUnavailable, for posts with no visible text; every other
// failure degrades to the heuristic.
func (e *ClaimExtractor) Extract(ctx context.Context, post string) (model.Claim, error) {
	text := VisibleText(post)
	if text == "" {
		return model.Claim{}, ErrExtractionUnavailable
	}

	if e.provider != nil {
		claim, reason := e.fromBackend(ctx, text)
		if reason == "" {
			return claim, nil
		}
		metrics.RecordDegradation("extract", reason)
		e.logger.Warn("claim extraction degraded to heuristic", slog.String("reason", reason))
	}

	return Heuristic(text, e.opts.MaxClaimChars), nil
}

// fromBackend returns the backend's claim, or a non-empty reason why it
// could not be used
func (e *ClaimExtractor) fromBackend(ctx context.Context, text string) (model.Claim, string) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:    systemPrompt,
		Prompt:    buildPrompt(text),
		MaxTokens: 200,
	})
	if err != nil {
		if kind := llm.KindOf(err); kind != "" {
			return model.Claim{}, string(kind)
		}
		return model.Claim{}, "error"
	}

	claim := cleanClaim(resp.Text)
	switch {
	case claim == "" || strings.EqualFold(claim, noClaim):
		return model.Claim{}, "empty"
	case utf8.RuneCountInString(claim) > e.opts.MaxClaimChars:
		return model.Claim{}, "too_long"
	case util.Overlap(util.ContentTokens(claim), util.ContentTokens(text)) == 0:
		return model.Claim{}, "unrelated"
	}

	return model.Claim{Text: claim, Method: model.MethodReasoning}, ""
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Read the post below and state its single most important checkable factual claim.

Rules:
1. Answer with exactly one declarative sentence and nothing else.
2. Use only information stated in the post. Keep names, places and dates as written.
3. If the post makes no factual claim, answer %s.

Post:
"""
%s
"""`, noClaim, text)
}

// cleanClaim reduces a backend answer to one plain sentence: the first
// non-empty line with any "Claim:" label and surrounding quotes removed
func cleanClaim(raw string) string {
	line := ""
	for _, l := range strings.Split(strings.TrimSpace(raw), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	if i := strings.Index(line, ":"); i > 0 && i < 12 && strings.EqualFold(strings.TrimSpace(line[:i]), "claim") {
		line = line[i+1:]
	}
	line = strings.Trim(strings.TrimSpace(line), "\"'`“”")
	return strings.Join(strings.Fields(line), " ")
}
