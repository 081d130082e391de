package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/factlens/internal/model"
)

var (
	// Two or more adjacent capitalized words: "Lakeside Metro", "Northwind Weather Bureau"
	capitalizedPhrase = regexp.MustCompile(`\b\p{Lu}[\p{L}'’.-]*(?:\s+\p{Lu}[\p{L}'’.-]*)+`)

	months = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

	dateToken = regexp.MustCompile(`(?i)\b(?:` +
		`\d{4}-\d{1,2}-\d{1,2}` + // 2023-03-21
		`|\d{1,2}/\d{1,2}/\d{2,4}` + // 21/03/2023
		`|\d{1,2}(?:st|nd|rd|th)?\s+` + months + // 21 March
		`|` + months + `\s+\d{1,2}(?:st|nd|rd|th)?` + // March 21st
		`|(?:19|20)\d{2}` + // 2023
		`)\b`)
)

// Heuristic picks a claim without a reasoning backend: the first sentence
// that names something (a capitalized multi-word phrase) or dates something,
// otherwise the first sentence. The claim is empty only when text is blank.
func Heuristic(text string, maxChars int) model.Claim {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Claim{}
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return model.Claim{Text: truncateRunes(text, maxChars), Method: model.MethodWholeText}
	}

	for i, s := range sentences {
		if looksFactual(s) {
			return model.Claim{Text: truncateRunes(s, maxChars), Method: model.MethodFactual, Sentence: i}
		}
	}

	return model.Claim{Text: truncateRunes(sentences[0], maxChars), Method: model.MethodFirstSentence, Sentence: 0}
}

func looksFactual(sentence string) bool {
	return capitalizedPhrase.MatchString(sentence) || dateToken.MatchString(sentence)
}

// truncateRunes cuts s to at most max runes, preferring a word boundary
func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)[:max]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
