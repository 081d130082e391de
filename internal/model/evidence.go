package model

// EvidenceItem is a read-only projection of a Fact plus its Source, surfaced
// to the reasoning step for one verification
type EvidenceItem struct {
	FactID          string        `json:"fact_id"`
	Subject         Entity        `json:"subject"`
	Predicate       string        `json:"predicate,omitempty"`
	ObjectLabel     string        `json:"object_label"`
	Date            string        `json:"date,omitempty"`
	Severity        string        `json:"severity,omitempty"`
	EvidenceSnippet string        `json:"evidence_snippet,omitempty"`
	Source          Source        `json:"source"`
	Tier            RetrievalTier `json:"tier"`            // linked or lexical
	Score           int           `json:"score,omitempty"` // Shared-token count (lexical tier only)
}

// RetrievalTier records why a fact was selected as evidence
type RetrievalTier string

const (
	RetrievalLinked  RetrievalTier = "linked"  // Subject or location entity was linked from the claim
	RetrievalLexical RetrievalTier = "lexical" // Token overlap fallback
)

// ReliabilityTier represents the classification of source reliability
type ReliabilityTier int

const (
	TierUnknown   ReliabilityTier = 0 // Not yet classified
	TierPrimary   ReliabilityTier = 1 // Official bulletins, operators, statutory bodies
	TierSecondary ReliabilityTier = 2 // Major publishers, reputable media
	TierTertiary  ReliabilityTier = 3 // Blogs, aggregators, social accounts
)

func (t ReliabilityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// ParseReliabilityTier converts a tier string to ReliabilityTier.
// Unrecognized values map to TierUnknown so the caller can classify them.
func ParseReliabilityTier(tier string) ReliabilityTier {
	switch tier {
	case "primary", "Primary", "1":
		return TierPrimary
	case "secondary", "Secondary", "2":
		return TierSecondary
	case "tertiary", "Tertiary", "3":
		return TierTertiary
	default:
		return TierUnknown
	}
}
