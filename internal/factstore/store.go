// Package factstore loads, validates and indexes the knowledge graph.
//
// A Store is immutable once New returns, so any number of goroutines may
// read from it without locking.
package factstore

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/factlens/internal/model"
)

// Store holds entities, sources and facts for the process lifetime.
// Values returned by accessors share alias and location slices with the
// store; callers must treat them as read-only.
type Store struct {
	entities   []model.Entity
	entityByID map[string]int
	sources    map[string]model.Source
	facts      []model.Fact
	factByID   map[string]int
	bySubject  map[string][]int
	byLocation map[string][]int
}

// Stats summarizes store contents
type Stats struct {
	Entities int `json:"entities"`
	Facts    int `json:"facts"`
	Sources  int `json:"sources"`
}

// Option configures store construction
type Option func(*options)

type options struct {
	classifier *TierClassifier
	path       string
}

// WithTierClassifier sets the classifier used for sources without a declared tier
func WithTierClassifier(c *TierClassifier) Option {
	return func(o *options) {
		o.classifier = c
	}
}

func withPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New validates ds and builds an indexed Store. Any violation yields a
// *DataIntegrityError listing every problem found.
func New(ds model.Dataset, opts ...Option) (*Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.classifier == nil {
		o.classifier = NewTierClassifier(nil)
	}

	var problems []string
	if err := validate.Struct(ds); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, &DataIntegrityError{Path: o.path, Err: err}
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Dataset."), fe.Tag()))
		}
	}

	s := &Store{
		entities:   make([]model.Entity, 0, len(ds.Entities)),
		entityByID: make(map[string]int, len(ds.Entities)),
		sources:    make(map[string]model.Source, len(ds.Sources)),
		facts:      make([]model.Fact, 0, len(ds.Facts)),
		factByID:   make(map[string]int, len(ds.Facts)),
		bySubject:  make(map[string][]int),
		byLocation: make(map[string][]int),
	}

	for _, e := range ds.Entities {
		if _, dup := s.entityByID[e.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate entity id %q", e.ID))
			continue
		}
		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) == "" {
				problems = append(problems, fmt.Sprintf("entity %q has a blank alias", e.ID))
			}
		}
		e.Aliases = slices.Clone(e.Aliases)
		s.entityByID[e.ID] = len(s.entities)
		s.entities = append(s.entities, e)
	}

	for _, src := range ds.Sources {
		if _, dup := s.sources[src.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate source id %q", src.ID))
			continue
		}
		src.Tier = model.ParseReliabilityTier(src.ReliabilityTier)
		if src.Tier == model.TierUnknown {
			src.Tier = o.classifier.Classify(src.URL)
		}
		s.sources[src.ID] = src
	}

	for _, f := range ds.Facts {
		if _, dup := s.factByID[f.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate fact id %q", f.ID))
			continue
		}
		if _, ok := s.entityByID[f.SubjectEntityID]; !ok {
			problems = append(problems, fmt.Sprintf("fact %q: unknown subject entity %q", f.ID, f.SubjectEntityID))
		}
		for _, loc := range f.LocationEntityIDs {
			if _, ok := s.entityByID[loc]; !ok {
				problems = append(problems, fmt.Sprintf("fact %q: unknown location entity %q", f.ID, loc))
			}
		}
		if _, ok := s.sources[f.SourceID]; !ok {
			problems = append(problems, fmt.Sprintf("fact %q: unknown source %q", f.ID, f.SourceID))
		}

		f.LocationEntityIDs = slices.Clone(f.LocationEntityIDs)
		idx := len(s.facts)
		s.factByID[f.ID] = idx
		s.facts = append(s.facts, f)
		s.bySubject[f.SubjectEntityID] = append(s.bySubject[f.SubjectEntityID], idx)
		for _, loc := range f.LocationEntityIDs {
			if loc == f.SubjectEntityID {
				continue
			}
			s.byLocation[loc] = append(s.byLocation[loc], idx)
		}
	}

	if len(problems) > 0 {
		return nil, &DataIntegrityError{Path: o.path, Problems: problems}
	}
	return s, nil
}

// EntityByID returns the entity with the given id
func (s *Store) EntityByID(id string) (model.Entity, bool) {
	idx, ok := s.entityByID[id]
	if !ok {
		return model.Entity{}, false
	}
	return s.entities[idx], true
}

// SourceByID returns the source with the given id
func (s *Store) SourceByID(id string) (model.Source, bool) {
	src, ok := s.sources[id]
	return src, ok
}

// FactByID returns the fact with the given id
func (s *Store) FactByID(id string) (model.Fact, bool) {
	idx, ok := s.factByID[id]
	if !ok {
		return model.Fact{}, false
	}
	return s.facts[idx], true
}

// FactsBySubject returns the facts about entityID in insertion order
func (s *Store) FactsBySubject(entityID string) []model.Fact {
	return s.collect(s.bySubject[entityID])
}

// FactsByLocation returns the facts that name entityID as a location,
// excluding facts where it is also the subject, in insertion order
func (s *Store) FactsByLocation(entityID string) []model.Fact {
	return s.collect(s.byLocation[entityID])
}

// Ordinal returns the insertion position of a fact
func (s *Store) Ordinal(factID string) (int, bool) {
	idx, ok := s.factByID[factID]
	return idx, ok
}

// Entities returns every entity in insertion order
func (s *Store) Entities() []model.Entity {
	return slices.Clone(s.entities)
}

// Facts returns every fact in insertion order
func (s *Store) Facts() []model.Fact {
	return slices.Clone(s.facts)
}

// Stats returns record counts
func (s *Store) Stats() Stats {
	return Stats{
		Entities: len(s.entities),
		Facts:    len(s.facts),
		Sources:  len(s.sources),
	}
}

func (s *Store) collect(idxs []int) []model.Fact {
	facts := make([]model.Fact, 0, len(idxs))
	for _, idx := range idxs {
		facts = append(facts, s.facts[idx])
	}
	return facts
}
