package verdict

import (
	"math"
	"testing"

	"github.com/ppiankov/factlens/internal/model"
)

func TestProfile(t *testing.T) {
	evidence := []model.EvidenceItem{
		{Source: model.Source{Tier: model.TierPrimary}, Tier: model.RetrievalLinked},
		{Source: model.Source{Tier: model.TierPrimary}, Tier: model.RetrievalLinked},
		{Source: model.Source{Tier: model.TierSecondary}, Tier: model.RetrievalLexical},
		{Source: model.Source{Tier: model.TierTertiary}, Tier: model.RetrievalLexical},
		{Source: model.Source{}, Tier: model.RetrievalLinked},
	}

	p := NewProfile(evidence)

	want := Profile{Primary: 2, Secondary: 1, Tertiary: 1, Unknown: 1, Linked: 3, Lexical: 2}
	if p != want {
		t.Fatalf("NewProfile() = %+v, want %+v", p, want)
	}
	if p.Total() != 5 {
		t.Errorf("Total() = %d, want 5", p.Total())
	}

	// (2*3 + 1*2 + 1*1) / (5*3)
	if got := p.Authority(); math.Abs(got-9.0/15.0) > 1e-9 {
		t.Errorf("Authority() = %v, want %v", got, 9.0/15.0)
	}

	wantString := "2 primary, 1 secondary, 1 tertiary, 1 unclassified sources; 3 linked, 2 lexical matches"
	if p.String() != wantString {
		t.Errorf("String() = %q, want %q", p.String(), wantString)
	}
}

func TestProfile_Empty(t *testing.T) {
	p := NewProfile(nil)
	if p.Authority() != 0 {
		t.Errorf("Authority() = %v, want 0", p.Authority())
	}
}
