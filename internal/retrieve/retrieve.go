// Package retrieve selects the facts that are relevant to a claim.
//
// Evidence is ordered in three tiers and truncated to MaxItems afterwards:
//
//  1. facts whose subject is a linked entity, in store order
//  2. facts that name a linked entity as a location, in store order
//  3. when tier 1 is empty, facts sharing content tokens with the claim,
//     by overlap descending then store order
//
// A fact appears at most once, in the first tier that selects it, so
// truncation always drops location and lexical matches before any fact
// about a linked subject.
package retrieve

import (
	"sort"

	"github.com/ppiankov/factlens/internal/factstore"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/util"
)

// Options configures retrieval
type Options struct {
	MaxItems         int  // Default 8
	MinOverlap       int  // Shared content tokens required in the lexical tier, default 2
	IncludeLocations bool // Also match facts that name a linked entity as a location
}

// DefaultOptions mirrors the retrieval defaults in model.DefaultConfig
func DefaultOptions() Options {
	return Options{MaxItems: 8, MinOverlap: 2, IncludeLocations: true}
}

// OptionsFromConfig converts the retrieval config section
func OptionsFromConfig(cfg model.RetrievalConfig) Options {
	return Options{
		MaxItems:         cfg.MaxItems,
		MinOverlap:       cfg.MinOverlap,
		IncludeLocations: cfg.IncludeLocations,
	}
}

// Retriever reads evidence from a fact store
type Retriever struct {
	store *factstore.Store
	opts  Options
}

// New creates a retriever. Non-positive limits fall back to the defaults.
func New(store *factstore.Store, opts Options) *Retriever {
	def := DefaultOptions()
	if opts.MaxItems <= 0 {
		opts.MaxItems = def.MaxItems
	}
	if opts.MinOverlap <= 0 {
		opts.MinOverlap = def.MinOverlap
	}
	return &Retriever{store: store, opts: opts}
}

// Retrieve returns at most MaxItems evidence items for claim. entityIDs are
// the IDs produced by the linker. The result is never nil.
func (r *Retriever) Retrieve(claim string, entityIDs []string) []model.EvidenceItem {
	seen := make(map[string]bool)
	items := r.appendFacts(nil, seen, r.bySubject(entityIDs), model.RetrievalLinked)
	subjects := len(items)

	if r.opts.IncludeLocations {
		items = r.appendFacts(items, seen, r.byLocation(entityIDs), model.RetrievalLinked)
	}
	if subjects == 0 {
		for _, it := range r.lexical(claim) {
			if !seen[it.FactID] {
				seen[it.FactID] = true
				items = append(items, it)
			}
		}
	}

	if items == nil {
		items = []model.EvidenceItem{}
	}
	if len(items) > r.opts.MaxItems {
		items = items[:r.opts.MaxItems]
	}
	return items
}

func (r *Retriever) bySubject(entityIDs []string) []model.Fact {
	return r.inStoreOrder(entityIDs, r.store.FactsBySubject)
}

func (r *Retriever) byLocation(entityIDs []string) []model.Fact {
	return r.inStoreOrder(entityIDs, r.store.FactsByLocation)
}

// inStoreOrder merges the facts of several entities back into dataset order
func (r *Retriever) inStoreOrder(entityIDs []string, lookup func(string) []model.Fact) []model.Fact {
	var facts []model.Fact
	for _, id := range entityIDs {
		facts = append(facts, lookup(id)...)
	}
	sort.SliceStable(facts, func(i, j int) bool {
		oi, _ := r.store.Ordinal(facts[i].ID)
		oj, _ := r.store.Ordinal(facts[j].ID)
		return oi < oj
	})
	return facts
}

func (r *Retriever) appendFacts(items []model.EvidenceItem, seen map[string]bool, facts []model.Fact, tier model.RetrievalTier) []model.EvidenceItem {
	for _, f := range facts {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		items = append(items, r.item(f, tier, 0))
	}
	return items
}

func (r *Retriever) lexical(claim string) []model.EvidenceItem {
	items := []model.EvidenceItem{}
	claimTokens := util.ContentTokens(claim)
	if len(claimTokens) == 0 {
		return items
	}

	type scored struct {
		fact  model.Fact
		score int
	}
	var hits []scored
	for _, f := range r.store.Facts() {
		score := util.Overlap(claimTokens, util.ContentTokens(f.ObjectLabel+" "+f.EvidenceSnippet))
		if score >= r.opts.MinOverlap {
			hits = append(hits, scored{fact: f, score: score})
		}
	}

	// Facts() is in insertion order, so a stable sort keeps ties in that order
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	for _, h := range hits {
		items = append(items, r.item(h.fact, model.RetrievalLexical, h.score))
	}
	return items
}

func (r *Retriever) item(f model.Fact, tier model.RetrievalTier, score int) model.EvidenceItem {
	subject, _ := r.store.EntityByID(f.SubjectEntityID)
	source, _ := r.store.SourceByID(f.SourceID)
	return model.EvidenceItem{
		FactID:          f.ID,
		Subject:         subject,
		Predicate:       f.Predicate,
		ObjectLabel:     f.ObjectLabel,
		Date:            f.Date,
		Severity:        f.Severity,
		EvidenceSnippet: f.EvidenceSnippet,
		Source:          source,
		Tier:            tier,
		Score:           score,
	}
}
