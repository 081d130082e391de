package util

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopwords are ignored when comparing texts for shared content
var stopwords = map[string]struct{}{
	"a":    {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {}, "any": {},
	"are":  {}, "as": {}, "at": {}, "be": {}, "been": {}, "before": {}, "but": {}, "by": {},
	"can":  {}, "could": {}, "did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "had": {},
	"has":  {}, "have": {}, "he": {}, "her": {}, "his": {}, "how": {}, "i": {}, "if": {},
	"in":   {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {}, "more": {},
	"my":   {}, "no": {}, "not": {}, "now": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"out":  {}, "over": {}, "said": {}, "says": {}, "she": {}, "so": {}, "some": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "to": {}, "up": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "which": {}, "who": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// Tokenize splits s into lowercased word tokens
func Tokenize(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// ContentTokens returns the distinct tokens of s that carry meaning:
// stopwords and single characters are dropped.
func ContentTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// Overlap counts tokens present in both sets
func Overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}
