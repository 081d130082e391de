package model

import "strings"

// Label is the verdict classification
type Label string

const (
	LabelTrue         Label = "True"
	LabelFalse        Label = "False"
	LabelPartlyTrue   Label = "Partly True"
	LabelUnverifiable Label = "Unverifiable"
)

// Labels lists every valid label in a stable order
var Labels = []Label{LabelTrue, LabelFalse, LabelPartlyTrue, LabelUnverifiable}

// IsValid reports whether l is one of the four verdict labels
func (l Label) IsValid() bool {
	switch l {
	case LabelTrue, LabelFalse, LabelPartlyTrue, LabelUnverifiable:
		return true
	}
	return false
}

// ParseLabel matches s against the verdict labels ignoring case and
// surrounding whitespace. The second result is false when nothing matches.
func ParseLabel(s string) (Label, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Labels {
		if strings.EqualFold(s, string(l)) {
			return l, true
		}
	}
	return LabelUnverifiable, false
}

// Verdict is the labeled, scored, cited outcome of verifying a claim
type Verdict struct {
	Label      Label    `json:"label"`
	Confidence float64  `json:"confidence"` // Always within [0,1]
	Citations  []string `json:"citations"`  // Fact IDs, each present in the supplied evidence
	Reasoning  string   `json:"reasoning"`
	Degraded   bool     `json:"-"` // Produced by a degradation path rather than the backend
}

// Citation is the caller-facing reference to a cited fact
type Citation struct {
	FactID   string `json:"fact_id"`
	SourceID string `json:"source_id"` // Always taken from the fact store
}

// Result is the response returned by a verification
type Result struct {
	Claim      string     `json:"claim"`
	Verdict    Label      `json:"verdict"`
	Confidence float64    `json:"confidence"`
	Citations  []Citation `json:"citations"`
	Reasoning  string     `json:"reasoning"`
}
