package verdict

import (
	"fmt"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

const systemPrompt = `You are a fact-checking assistant for a closed evidence set.
Judge the claim using ONLY the evidence items you are given. Ignore anything you know from elsewhere.
Respond with a single JSON object and no other text.`

// buildPrompt lists the claim and every evidence item with its fact id,
// subject, assertion and source
func buildPrompt(claim string, evidence []model.EvidenceItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim: %s\n\nEvidence:\n", claim)
	for _, item := range evidence {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", item.FactID, subjectName(item.Subject), item.ObjectLabel)

		var details []string
		if item.Date != "" {
			details = append(details, "date "+item.Date)
		}
		if item.Severity != "" {
			details = append(details, "severity "+item.Severity)
		}
		details = append(details, "source "+describeSource(item.Source))
		fmt.Fprintf(&b, "  (%s)\n", strings.Join(details, "; "))

		if item.EvidenceSnippet != "" {
			fmt.Fprintf(&b, "  Excerpt: %q\n", item.EvidenceSnippet)
		}
	}

	fmt.Fprintf(&b, "\nEvidence profile: %s.\n", NewProfile(evidence))

	b.WriteString(`
Answer with this JSON object:
{"label": "True" | "False" | "Partly True" | "Unverifiable", "confidence": <number 0-1>, "citations": ["<fact id>", ...], "reasoning": "<two or three sentences>"}

Rules:
1. Cite only fact ids shown in square brackets above. Cite every fact your judgement relies on.
2. Use "Partly True" when the evidence supports some parts of the claim and contradicts others.
3. Use "Unverifiable" when the evidence neither supports nor contradicts the claim.
4. Prefer primary sources when evidence conflicts.`)

	return b.String()
}

func subjectName(e model.Entity) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// describeSource renders "src_id (title, publisher, tier, published date)"
func describeSource(s model.Source) string {
	var parts []string
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	if s.Publisher != "" {
		parts = append(parts, s.Publisher)
	}
	parts = append(parts, s.Tier.String())
	if s.PublishedAt != "" {
		parts = append(parts, "published "+s.PublishedAt)
	}
	return fmt.Sprintf("%s (%s)", s.ID, strings.Join(parts, ", "))
}
