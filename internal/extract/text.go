package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tagPattern matches a complete start, end or self-closing tag, or a
// comment or doctype. Group 1 is the tag name.
var tagPattern = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9-]*)(?:\s[^<>]*)?/?>|<!--[\s\S]*?-->|<![A-Za-z][^<>]*>`)

// blockElements end a line of visible text
var blockElements = map[string]bool{
	"p":          true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1":         true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "article": true, "section": true, "tr": true,
}

// VisibleText reduces a post to the text a reader would see. Markup is
// dropped, script and style content is skipped, entities are decoded and
// block elements become line breaks. Only known HTML elements count as
// markup; any other '<' is text, so plain posts like "x<y" or "<3 the metro"
// keep every word.
func VisibleText(post string) string {
	starts := markupStarts(post)
	if len(starts) == 0 {
		return normalizeLines(html.UnescapeString(post))
	}

	doc, err := html.Parse(strings.NewReader(escapeStrayLT(post, starts)))
	if err != nil {
		return normalizeLines(html.UnescapeString(post))
	}
	return normalizeLines(extractVisibleText(doc))
}

// markupStarts returns the offsets of every '<' that opens a known HTML
// element tag, a comment or a doctype
func markupStarts(post string) map[int]bool {
	starts := make(map[int]bool)
	for _, m := range tagPattern.FindAllStringSubmatchIndex(post, -1) {
		if m[2] >= 0 {
			name := strings.ToLower(post[m[2]:m[3]])
			if atom.Lookup([]byte(name)) == 0 {
				continue
			}
		}
		starts[m[0]] = true
	}
	return starts
}

// escapeStrayLT escapes every '<' outside starts so the parser cannot
// swallow the text after it
func escapeStrayLT(post string, starts map[int]bool) string {
	var b strings.Builder
	b.Grow(len(post))
	for i := 0; i < len(post); i++ {
		if post[i] == '<' && !starts[i] {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(post[i])
	}
	return b.String()
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}

// normalizeLines collapses runs of spaces inside each line and drops blank lines
func normalizeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// splitSentences splits text on sentence terminators followed by
// whitespace and on line breaks
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting inside numbers and abbreviations like "U.S."
			if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n') {
				flush()
			}
		}
	}
	flush()

	return sentences
}
