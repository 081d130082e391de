// Package pipeline composes extraction, linking, retrieval and verdict
// synthesis into one verification.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ppiankov/factlens/internal/extract"
	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/link"
	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/metrics"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/retrieve"
	"github.com/ppiankov/factlens/internal/verdict"
)

// ErrInvalidInput is the only error Verify returns
var ErrInvalidInput = errors.New("invalid input")

// NoClaimReasoning explains the result for posts without a checkable claim
const NoClaimReasoning = "No verifiable factual claim found in the text."

var tracer = otel.Tracer("github.com/ppiankov/factlens/internal/pipeline")

// Extractor reduces a post to one claim
type Extractor interface {
	Extract(ctx context.Context, post string) (model.Claim, error)
}

// Synthesizer produces a verdict from a claim and its evidence
type Synthesizer interface {
	Synthesize(ctx context.Context, claim string, evidence []model.EvidenceItem) model.Verdict
}

// Pipeline runs verifications against one fact store. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	store       *factstore.Store
	extractor   Extractor
	linker      *link.Linker
	retriever   *retrieve.Retriever
	synthesizer Synthesizer
	logger      *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRetrieval replaces the default retrieval options
func WithRetrieval(opts retrieve.Options) Option {
	return func(p *Pipeline) {
		p.retriever = retrieve.New(p.store, opts)
	}
}

// New creates a pipeline over store
func New(store *factstore.Store, extractor Extractor, synthesizer Synthesizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:       store,
		extractor:   extractor,
		linker:      link.New(store),
		retriever:   retrieve.New(store, retrieve.DefaultOptions()),
		synthesizer: synthesizer,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig wires the extractor, synthesizer and retriever from cfg.
// provider may be nil, in which case every stage runs on its fallback path.
func NewFromConfig(cfg *model.Config, store *factstore.Store, provider llm.Provider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return New(store,
		extract.NewClaimExtractor(provider, extract.OptionsFromConfig(cfg.Extraction, logger)),
		verdict.NewSynthesizer(provider, verdict.OptionsFromConfig(cfg.Synthesis, logger)),
		WithLogger(logger),
		WithRetrieval(retrieve.OptionsFromConfig(cfg.Retrieval)),
	)
}

// Verify checks the main claim of post against the fact store. Blank input
// fails with ErrInvalidInput; everything else, including backend failures
// and panics inside a stage, resolves to a well-formed Result.
func (p *Pipeline) Verify(ctx context.Context, post string) (result *model.Result, err error) {
	if strings.TrimSpace(post) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}

	ctx, span := tracer.Start(ctx, "pipeline.verify", trace.WithAttributes(attribute.Int("post.length", len(post))))
	defer span.End()
	start := time.Now()

	var claim model.Claim
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordDegradation("pipeline", "panic")
			p.logger.Error("verification stage panicked", slog.Any("panic", r))
			span.SetStatus(codes.Error, "panic")
			result, err = unverifiable(claim.Text, verdict.DegradedReasoning), nil
		}
		metrics.RecordVerification(string(result.Verdict))
		metrics.ObserveStage("total", time.Since(start))
		span.SetAttributes(attribute.String("verdict", string(result.Verdict)))
	}()

	p.stage(ctx, "extract", func(ctx context.Context) {
		var extractErr error
		claim, extractErr = p.extractor.Extract(ctx, post)
		if extractErr != nil {
			p.logger.Debug("no claim extracted", slog.String("error", extractErr.Error()))
			claim = model.Claim{}
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("claim.method", claim.Method))
	})
	if claim.IsEmpty() {
		return unverifiable("", NoClaimReasoning), nil
	}

	var entityIDs []string
	p.stage(ctx, "link", func(ctx context.Context) {
		entityIDs = p.linker.Link(claim.Text)
		trace.SpanFromContext(ctx).SetAttributes(attribute.StringSlice("entities", entityIDs))
	})

	var evidence []model.EvidenceItem
	p.stage(ctx, "retrieve", func(ctx context.Context) {
		evidence = p.retriever.Retrieve(claim.Text, entityIDs)
		metrics.ObserveEvidence(len(evidence))
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("evidence", len(evidence)))
	})

	var v model.Verdict
	p.stage(ctx, "synthesize", func(ctx context.Context) {
		v = p.synthesizer.Synthesize(ctx, claim.Text, evidence)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("degraded", v.Degraded))
	})

	p.logger.Debug("verified",
		slog.String("claim", claim.Text),
		slog.String("method", claim.Method),
		slog.Int("entities", len(entityIDs)),
		slog.Int("evidence", len(evidence)),
		slog.String("verdict", string(v.Label)))

	return p.result(claim.Text, v), nil
}

// stage runs fn inside its own span and records its latency
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := tracer.Start(ctx, "pipeline."+name)
	defer span.End()
	start := time.Now()
	fn(ctx)
	metrics.ObserveStage(name, time.Since(start))
}

// result builds the caller-facing shape. Source ids come from the fact
// store, never from the backend.
func (p *Pipeline) result(claim string, v model.Verdict) *model.Result {
	citations := make([]model.Citation, 0, len(v.Citations))
	for _, id := range v.Citations {
		fact, ok := p.store.FactByID(id)
		if !ok {
			continue
		}
		citations = append(citations, model.Citation{FactID: fact.ID, SourceID: fact.SourceID})
	}

	label := v.Label
	if !label.IsValid() {
		label = model.LabelUnverifiable
	}

	return &model.Result{
		Claim:      claim,
		Verdict:    label,
		Confidence: min(max(v.Confidence, 0), 1),
		Citations:  citations,
		Reasoning:  v.Reasoning,
	}
}

func unverifiable(claim, reasoning string) *model.Result {
	return &model.Result{
		Claim:      claim,
		Verdict:    model.LabelUnverifiable,
		Confidence: verdict.DefaultConfidence,
		Citations:  []model.Citation{},
		Reasoning:  reasoning,
	}
}
