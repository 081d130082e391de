package verdict

import (
	"fmt"

	"github.com/ppiankov/factlens/internal/model"
)

// Profile summarizes where a set of evidence comes from. It is shown to
// the backend next to the evidence and logged with each verdict.
type Profile struct {
	Primary   int
	Secondary int
	Tertiary  int
	Unknown   int
	Linked    int
	Lexical   int
}

// NewProfile counts evidence by source tier and retrieval tier
func NewProfile(evidence []model.EvidenceItem) Profile {
	var p Profile
	for _, item := range evidence {
		switch item.Source.Tier {
		case model.TierPrimary:
			p.Primary++
		case model.TierSecondary:
			p.Secondary++
		case model.TierTertiary:
			p.Tertiary++
		default:
			p.Unknown++
		}

		if item.Tier == model.RetrievalLexical {
			p.Lexical++
		} else {
			p.Linked++
		}
	}
	return p
}

// Total returns the number of evidence items profiled
func (p Profile) Total() int {
	return p.Primary + p.Secondary + p.Tertiary + p.Unknown
}

// Authority weights sources primary=3, secondary=2, tertiary=1, unknown=0
// and normalizes to [0,1]. Empty evidence scores 0.
func (p Profile) Authority() float64 {
	total := p.Total()
	if total == 0 {
		return 0
	}
	weighted := float64(p.Primary*3 + p.Secondary*2 + p.Tertiary)
	return weighted / float64(total*3)
}

func (p Profile) String() string {
	s := fmt.Sprintf("%d primary, %d secondary, %d tertiary", p.Primary, p.Secondary, p.Tertiary)
	if p.Unknown > 0 {
		s += fmt.Sprintf(", %d unclassified", p.Unknown)
	}
	return s + fmt.Sprintf(" sources; %d linked, %d lexical matches", p.Linked, p.Lexical)
}
