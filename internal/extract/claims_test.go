package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/llm/llmtest"
	"github.com/ppiankov/factlens/internal/model"
)

const post = "omg!! Northwind Weather Bureau issued an amber warning for Lakeside City on 21 March 2023. stay inside"

func TestExtract_AcceptsBackendClaim(t *testing.T) {
	fake := llmtest.Reply("Claim: \"Northwind Weather Bureau issued an amber warning for Lakeside City on 21 March 2023.\"")
	e := NewClaimExtractor(fake, DefaultOptions())

	claim, err := e.Extract(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, "Northwind Weather Bureau issued an amber warning for Lakeside City on 21 March 2023.", claim.Text)
	assert.Equal(t, model.MethodReasoning, claim.Method)
	assert.Equal(t, 1, fake.Calls())

	req, ok := fake.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.Prompt, "amber warning")
	assert.False(t, req.JSON)
}

func TestExtract_FallsBack(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"no backend", nil},
		{"backend error", llmtest.Fail(llm.FailureStatus)},
		{"empty answer", llmtest.Reply("   ")},
		{"no claim", llmtest.Reply("NONE")},
		{"unrelated answer", llmtest.Reply("Bananas are berries.")},
		{"too long", llmtest.Reply("Northwind " + strings.Repeat("warning ", 100))},
		{"timeout", llmtest.Hang()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewClaimExtractor(tt.provider, Options{Timeout: 20 * time.Millisecond, MaxClaimChars: 200})

			claim, err := e.Extract(context.Background(), post)
			require.NoError(t, err)
			assert.Equal(t, model.MethodFactual, claim.Method)
			assert.Equal(t, "Northwind Weather Bureau issued an amber warning for Lakeside City on 21 March 2023.", claim.Text)
		})
	}
}

func TestExtract_TimeoutIsBounded(t *testing.T) {
	e := NewClaimExtractor(llmtest.Hang(), Options{Timeout: 30 * time.Millisecond})

	start := time.Now()
	_, err := e.Extract(context.Background(), post)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtract_NoVisibleText(t *testing.T) {
	fake := llmtest.Reply("anything")
	e := NewClaimExtractor(fake, DefaultOptions())

	for _, in := range []string{"", "   ", "<p> </p><script>x()</script>"} {
		_, err := e.Extract(context.Background(), in)
		assert.True(t, errors.Is(err, ErrExtractionUnavailable), "input %q", in)
	}
	assert.Equal(t, 0, fake.Calls())
}

func TestExtract_HTMLPost(t *testing.T) {
	e := NewClaimExtractor(nil, DefaultOptions())

	claim, err := e.Extract(context.Background(), `<div><p>so tired</p><p>Lakeside Metro Rail is <em>closed</em> today</p></div>`)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Metro Rail is closed today", claim.Text)
}

func TestExtract_LessThanPostsKeepTheirText(t *testing.T) {
	e := NewClaimExtractor(llmtest.Fail(llm.FailureStatus), DefaultOptions())

	tests := []struct {
		post string
		want string
	}{
		{
			post: "<NWB issued an amber warning for Lakeside City on 21 March 2023",
			want: "<NWB issued an amber warning for Lakeside City on 21 March 2023",
		},
		{
			post: "Rates x<y but NWB issued an amber warning for Lakeside City on 21 March 2023.",
			want: "Rates x<y but NWB issued an amber warning for Lakeside City on 21 March 2023.",
		},
	}
	for _, tt := range tests {
		claim, err := e.Extract(context.Background(), tt.post)
		require.NoError(t, err, tt.post)
		assert.Equal(t, tt.want, claim.Text)
		assert.Equal(t, model.MethodFactual, claim.Method)
	}
}

func TestCleanClaim(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"NWB issued a warning."`, "NWB issued a warning."},
		{"claim:   NWB issued a warning.", "NWB issued a warning."},
		{"\n\nNWB issued a warning.\nExplanation: because.", "NWB issued a warning."},
		{"NWB   issued\ta warning.", "NWB issued a warning."},
		{"Note: the metro ran.", "Note: the metro ran."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanClaim(tt.in), "input %q", tt.in)
	}
}
