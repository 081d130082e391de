package verdict

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/llm/llmtest"
	"github.com/ppiankov/factlens/internal/model"
)

func TestSynthesize_Success(t *testing.T) {
	fake := llmtest.Reply(`{"label":"True","confidence":0.95,"citations":["fact_a"],"reasoning":"The bulletin confirms it."}`)
	s := NewSynthesizer(fake, DefaultOptions())

	v := s.Synthesize(context.Background(), "claim", evidenceFor("fact_a"))

	assert.Equal(t, model.LabelTrue, v.Label)
	assert.Equal(t, 0.95, v.Confidence)
	assert.Equal(t, []string{"fact_a"}, v.Citations)
	assert.False(t, v.Degraded)

	req, ok := fake.LastRequest()
	require.True(t, ok)
	assert.True(t, req.JSON)
	assert.Contains(t, req.Prompt, "[fact_a]")
	assert.Contains(t, req.System, "ONLY the evidence")
}

func TestSynthesize_EmptyEvidenceSkipsBackend(t *testing.T) {
	fake := llmtest.Reply(`{"label":"True","confidence":1,"citations":["fact_a"],"reasoning":"r"}`)
	s := NewSynthesizer(fake, DefaultOptions())

	for _, evidence := range [][]model.EvidenceItem{nil, {}} {
		v := s.Synthesize(context.Background(), "claim", evidence)
		assert.Equal(t, NoEvidence(), v)
	}
	assert.Equal(t, 0, fake.Calls())
}

func TestSynthesize_Degrades(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"no backend", nil},
		{"status error", llmtest.Fail(llm.FailureStatus)},
		{"transport error", llmtest.Fail(llm.FailureTransport)},
		{"timeout", llmtest.Hang()},
		{"truncated json", llmtest.Reply(`{"label":"True","confid`)},
		{"prose", llmtest.Reply("I think it is true.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(tt.provider, Options{Timeout: 20 * time.Millisecond})

			v := s.Synthesize(context.Background(), "claim", evidenceFor("fact_a"))
			assert.Equal(t, Degraded(), v)
		})
	}
}

func TestSynthesize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSynthesizer(llmtest.Hang(), DefaultOptions())
	start := time.Now()
	v := s.Synthesize(ctx, "claim", evidenceFor("fact_a"))

	assert.Equal(t, model.LabelUnverifiable, v.Label)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSynthesize_TruncatesReasoning(t *testing.T) {
	long := strings.Repeat("a", 50)
	fake := llmtest.Reply(`{"label":"True","confidence":0.9,"citations":["fact_a"],"reasoning":"` + long + `"}`)
	s := NewSynthesizer(fake, Options{MaxReasoningChars: 10})

	v := s.Synthesize(context.Background(), "claim", evidenceFor("fact_a"))
	assert.Equal(t, "aaaaaaaaa…", v.Reasoning)
}

func TestSynthesize_NeverCitesOutsideEvidence(t *testing.T) {
	fake := llmtest.Reply(`{"label":"False","confidence":0.9,"citations":["fact_b","fact_ghost","fact_a"],"reasoning":"r"}`)
	s := NewSynthesizer(fake, DefaultOptions())

	v := s.Synthesize(context.Background(), "claim", evidenceFor("fact_a", "fact_b"))
	assert.Equal(t, []string{"fact_b", "fact_a"}, v.Citations)
}
