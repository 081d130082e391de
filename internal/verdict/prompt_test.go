package verdict

import (
	"strings"
	"testing"

	"github.com/ppiankov/factlens/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	evidence := []model.EvidenceItem{
		{
			FactID:          "fact_nwb_amber",
			Subject:         model.Entity{ID: "ent_nwb", Name: "Northwind Weather Bureau"},
			ObjectLabel:     "Amber rain warning for Lakeside City on 21 March 2023",
			Date:            "2023-03-21",
			Severity:        "amber",
			EvidenceSnippet: "An amber warning is in force",
			Source: model.Source{
				ID:          "src_nwb_bulletin",
				Title:       "NWB bulletin",
				Publisher:   "Northwind Weather Bureau",
				PublishedAt: "2023-03-20",
				Tier:        model.TierPrimary,
			},
			Tier: model.RetrievalLinked,
		},
		{
			FactID:      "fact_lexical",
			Subject:     model.Entity{ID: "ent_unnamed"},
			ObjectLabel: "Rain expected",
			Source:      model.Source{ID: "src_blog", Tier: model.TierTertiary},
			Tier:        model.RetrievalLexical,
		},
	}

	prompt := buildPrompt("NWB issued an amber warning", evidence)

	for _, want := range []string{
		"Claim: NWB issued an amber warning",
		"- [fact_nwb_amber] Northwind Weather Bureau: Amber rain warning for Lakeside City on 21 March 2023",
		"(date 2023-03-21; severity amber; source src_nwb_bulletin (NWB bulletin, Northwind Weather Bureau, primary, published 2023-03-20))",
		`Excerpt: "An amber warning is in force"`,
		"- [fact_lexical] ent_unnamed: Rain expected",
		"(source src_blog (tertiary))",
		"Evidence profile: 1 primary, 0 secondary, 1 tertiary sources; 1 linked, 1 lexical matches.",
		`"label": "True" | "False" | "Partly True" | "Unverifiable"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n%s", want, prompt)
		}
	}
}
