package verdict

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

// Fixed reasoning strings for verdicts the backend did not author
const (
	DegradedReasoning   = "Unable to produce a structured verdict."
	NoEvidenceReasoning = "No evidence in the dataset relates to this claim."
	UncitedReasoning    = "The verdict did not cite any of the supplied evidence."
)

// DefaultConfidence replaces a missing or non-numeric confidence
const DefaultConfidence = 0.5

// Degradation reasons reported by decode
const (
	reasonMalformed = "malformed"
	reasonUncited   = "uncited"
)

// payload is the loosely typed backend answer. Each field is decoded on its
// own so that one bad field never discards the others.
type payload struct {
	Label      json.RawMessage `json:"label"`
	Verdict    json.RawMessage `json:"verdict"`
	Confidence json.RawMessage `json:"confidence"`
	Citations  json.RawMessage `json:"citations"`
	Reasoning  json.RawMessage `json:"reasoning"`
}

// decodeReport describes the repairs applied to a payload
type decodeReport struct {
	reason  string // Non-empty when the verdict was degraded
	dropped int    // Citations removed because they were not in the evidence
}

// Degraded returns the fixed verdict used when no structured answer exists
func Degraded() model.Verdict {
	return model.Verdict{
		Label:      model.LabelUnverifiable,
		Confidence: DefaultConfidence,
		Citations:  []string{},
		Reasoning:  DegradedReasoning,
		Degraded:   true,
	}
}

// NoEvidence returns the verdict for a claim with nothing to reason over
func NoEvidence() model.Verdict {
	return model.Verdict{
		Label:      model.LabelUnverifiable,
		Confidence: DefaultConfidence,
		Citations:  []string{},
		Reasoning:  NoEvidenceReasoning,
	}
}

// Decode validates and repairs a raw backend answer against the evidence
// that was supplied for it:
//
//   - a single surrounding markdown code fence is removed
//   - anything that is not a JSON object yields Degraded()
//   - label (or verdict) is matched case-insensitively; unknown values
//     become Unverifiable
//   - confidence is clamped to [0,1]; missing or non-numeric becomes 0.5
//   - citations may be fact id strings or {"fact_id": ...} objects; ids not
//     in evidence are dropped and duplicates collapse, first occurrence wins
//   - a True, False or Partly True label with no surviving citation
//     becomes Unverifiable
//
// The returned verdict never cites a fact outside evidence.
func Decode(raw string, evidence []model.EvidenceItem) model.Verdict {
	v, _ := decode(raw, evidence)
	return v
}

func decode(raw string, evidence []model.EvidenceItem) (model.Verdict, decodeReport) {
	body := unwrapFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return Degraded(), decodeReport{reason: reasonMalformed}
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return Degraded(), decodeReport{reason: reasonMalformed}
	}

	var report decodeReport
	v := model.Verdict{
		Label:      decodeLabel(p),
		Confidence: decodeConfidence(p.Confidence),
		Reasoning:  decodeString(p.Reasoning),
	}
	v.Citations, report.dropped = decodeCitations(p.Citations, evidence)

	if v.Label != model.LabelUnverifiable && len(v.Citations) == 0 {
		v.Label = model.LabelUnverifiable
		v.Confidence = DefaultConfidence
		v.Reasoning = UncitedReasoning
		v.Degraded = true
		report.reason = reasonUncited
	}
	if v.Reasoning == "" {
		v.Reasoning = DegradedReasoning
	}

	return v, report
}

// unwrapFence strips one ```-fence pair, with or without a language tag
func unwrapFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(s[3:], "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		// The first line is either empty or a language tag such as "json"
		if tag := strings.TrimSpace(inner[:nl]); !strings.HasPrefix(tag, "{") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}

func decodeLabel(p payload) model.Label {
	s := decodeString(p.Label)
	if s == "" {
		s = decodeString(p.Verdict)
	}
	label, _ := model.ParseLabel(s)
	return label
}

func decodeConfidence(raw json.RawMessage) float64 {
	var f float64
	switch {
	case isNull(raw):
		return DefaultConfidence
	case json.Unmarshal(raw, &f) == nil:
	default:
		s := decodeString(raw)
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return DefaultConfidence
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultConfidence
	}
	return min(max(f, 0), 1)
}

// decodeCitations keeps citations that resolve against evidence, in order
func decodeCitations(raw json.RawMessage, evidence []model.EvidenceItem) ([]string, int) {
	out := []string{}
	if isNull(raw) {
		return out, 0
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		// A lone citation outside an array
		elems = []json.RawMessage{raw}
	}

	allowed := make(map[string]bool, len(evidence))
	for _, item := range evidence {
		allowed[item.FactID] = true
	}

	seen := make(map[string]bool, len(elems))
	dropped := 0
	for _, elem := range elems {
		id := citationID(elem)
		if id == "" || !allowed[id] {
			dropped++
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, dropped
}

func citationID(elem json.RawMessage) string {
	if id := decodeString(elem); id != "" {
		return id
	}
	var obj struct {
		FactID string `json:"fact_id"`
		ID     string `json:"id"`
	}
	if err := json.Unmarshal(elem, &obj); err != nil {
		return ""
	}
	if obj.FactID != "" {
		return strings.TrimSpace(obj.FactID)
	}
	return strings.TrimSpace(obj.ID)
}

// decodeString returns the trimmed string value, or "" for any other JSON type
func decodeString(raw json.RawMessage) string {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
