package model

// Claim represents the single factual statement extracted from a post
type Claim struct {
	Text     string `json:"text"`               // The claim text itself
	Method   string `json:"method,omitempty"`   // Which extraction path produced it (e.g., "heuristic:factual")
	Sentence int    `json:"sentence,omitempty"` // Sentence index in the post (0-based, heuristic paths only)
}

// Extraction methods recorded on a Claim
const (
	MethodReasoning     = "reasoning"
	MethodFactual       = "heuristic:factual"
	MethodFirstSentence = "heuristic:first-sentence"
	MethodWholeText     = "heuristic:whole-text"
)

// IsEmpty reports whether the claim carries no text
func (c Claim) IsEmpty() bool {
	return c.Text == ""
}
