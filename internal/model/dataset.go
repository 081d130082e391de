package model

// Dataset is the parsed knowledge graph as it appears on disk
type Dataset struct {
	Entities []Entity `json:"entities" yaml:"entities" validate:"dive"`
	Sources  []Source `json:"sources" yaml:"sources" validate:"dive"`
	Facts    []Fact   `json:"facts" yaml:"facts" validate:"dive"`
}

// Entity is a named actor or place referenced by facts
type Entity struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Names returns the display name followed by all aliases
func (e Entity) Names() []string {
	names := make([]string, 0, len(e.Aliases)+1)
	names = append(names, e.Name)
	names = append(names, e.Aliases...)
	return names
}

// Source is the publication a fact was taken from
type Source struct {
	ID              string          `json:"id" yaml:"id" validate:"required"`
	Title           string          `json:"title,omitempty" yaml:"title,omitempty"`
	Publisher       string          `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishedAt     string          `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	URL             string          `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	ReliabilityTier string          `json:"reliability_tier,omitempty" yaml:"reliability_tier,omitempty"`
	Tier            ReliabilityTier `json:"-" yaml:"-"` // Resolved at load time
}

// Fact is an atomic, sourced assertion about a subject entity
type Fact struct {
	ID                string   `json:"id" yaml:"id" validate:"required"`
	SubjectEntityID   string   `json:"subject_entity_id" yaml:"subject_entity_id" validate:"required"`
	Predicate         string   `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	ObjectLabel       string   `json:"object_label" yaml:"object_label" validate:"required"`
	ObjectType        string   `json:"object_type,omitempty" yaml:"object_type,omitempty"`
	Date              string   `json:"date,omitempty" yaml:"date,omitempty"`
	Severity          string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	LocationEntityIDs []string `json:"location_entity_ids,omitempty" yaml:"location_entity_ids,omitempty"`
	SourceID          string   `json:"source_id" yaml:"source_id" validate:"required"`
	EvidenceSnippet   string   `json:"evidence_snippet,omitempty" yaml:"evidence_snippet,omitempty"`
}
