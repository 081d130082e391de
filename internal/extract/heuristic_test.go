package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/factlens/internal/model"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantText   string
		wantMethod string
		wantIndex  int
	}{
		{
			name:       "capitalized phrase",
			text:       "wow. unbelievable! Lakeside Metro shut everything down.",
			wantText:   "Lakeside Metro shut everything down.",
			wantMethod: model.MethodFactual,
			wantIndex:  2,
		},
		{
			name:       "date token",
			text:       "so annoying. trains stopped on 21 March again.",
			wantText:   "trains stopped on 21 March again.",
			wantMethod: model.MethodFactual,
			wantIndex:  1,
		},
		{
			name:       "iso date",
			text:       "ugh. warning issued 2023-03-21.",
			wantText:   "warning issued 2023-03-21.",
			wantMethod: model.MethodFactual,
			wantIndex:  1,
		},
		{
			name:       "first sentence fallback",
			text:       "everything is closed. nobody told us.",
			wantText:   "everything is closed.",
			wantMethod: model.MethodFirstSentence,
			wantIndex:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(tt.text, 500)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}
			if got.Sentence != tt.wantIndex {
				t.Errorf("Sentence = %d, want %d", got.Sentence, tt.wantIndex)
			}
		})
	}
}

func TestHeuristic_NeverEmptyForVisibleText(t *testing.T) {
	inputs := []string{"x", "?!", "lowercase words only", "...", strings.Repeat("long ", 300)}
	for _, in := range inputs {
		if got := Heuristic(in, 500); got.IsEmpty() {
			t.Errorf("Heuristic(%q) returned an empty claim", in)
		}
	}

	if got := Heuristic("   ", 500); !got.IsEmpty() {
		t.Errorf("expected empty claim for blank text, got %q", got.Text)
	}
}

func TestHeuristic_Truncates(t *testing.T) {
	got := Heuristic(strings.Repeat("word ", 200), 50)
	if n := len([]rune(got.Text)); n > 50 || n == 0 {
		t.Errorf("expected 1..50 runes, got %d", n)
	}
}
