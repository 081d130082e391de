// Package verdict turns a claim and its evidence into a labeled, scored and
// cited verdict. It is the only place a verdict is asserted, and it never
// returns a citation outside the evidence it was given.
package verdict

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/metrics"
	"github.com/ppiankov/factlens/internal/model"
)

// Options configures the synthesizer
type Options struct {
	Timeout           time.Duration // Bound on the reasoning call, default 5s
	MaxReasoningChars int           // Reasoning is cut to this length, default 1200
	Logger            *slog.Logger
}

// DefaultOptions mirrors the synthesis defaults in model.DefaultConfig
func DefaultOptions() Options {
	return Options{Timeout: 5 * time.Second, MaxReasoningChars: 1200}
}

// OptionsFromConfig converts the synthesis config section
func OptionsFromConfig(cfg model.SynthesisConfig, logger *slog.Logger) Options {
	return Options{Timeout: cfg.Timeout, MaxReasoningChars: cfg.MaxReasoningChars, Logger: logger}
}

// Synthesizer asks the reasoning backend for a verdict and enforces the
// output contract on whatever comes back
type Synthesizer struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

// NewSynthesizer creates a synthesizer. With a nil provider every claim
// that has evidence gets the degraded verdict.
func NewSynthesizer(provider llm.Provider, opts Options) *Synthesizer {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxReasoningChars <= 0 {
		opts.MaxReasoningChars = def.MaxReasoningChars
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{provider: provider, opts: opts, logger: logger.With(slog.String("component", "verdict"))}
}

// Synthesize returns the verdict for claim. It never fails: backend errors,
// timeouts and unusable answers all resolve to an Unverifiable verdict.
// Empty evidence returns NoEvidence() without calling the backend.
func (s *Synthesizer) Synthesize(ctx context.Context, claim string, evidence []model.EvidenceItem) model.Verdict {
	if len(evidence) == 0 {
		return NoEvidence()
	}
	if s.provider == nil {
		return s.degrade("no_backend", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System: systemPrompt,
		Prompt: buildPrompt(claim, evidence),
		JSON:   true,
	})
	if err != nil {
		reason := string(llm.KindOf(err))
		if reason == "" {
			reason = "error"
		}
		return s.degrade(reason, err)
	}

	v, report := decode(resp.Text, evidence)
	if report.dropped > 0 {
		s.logger.Warn("dropped citations outside the supplied evidence", slog.Int("dropped", report.dropped))
	}
	if report.reason != "" {
		metrics.RecordDegradation("verdict", report.reason)
		s.logger.Warn("verdict degraded", slog.String("reason", report.reason))
	}

	v.Reasoning = truncate(v.Reasoning, s.opts.MaxReasoningChars)

	s.logger.Debug("verdict synthesized",
		slog.String("label", string(v.Label)),
		slog.Float64("confidence", v.Confidence),
		slog.Int("citations", len(v.Citations)),
		slog.Float64("authority", NewProfile(evidence).Authority()),
		slog.Bool("cached", resp.Cached))
	return v
}

func (s *Synthesizer) degrade(reason string, err error) model.Verdict {
	metrics.RecordDegradation("verdict", reason)
	attrs := []any{slog.String("reason", reason)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.Warn("verdict degraded", attrs...)
	return Degraded()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
