package services

import (
	"strings"
	"unicode/utf8"
)

// buildSnippet extracts a window of at most maxLen runes from the question
// text, centered on the first occurrence of the raw query, falling back to
// the first of the given terms and then to the start of the text. Only the
// question text is ever excerpted; choice text stays out of snippets.
func buildSnippet(text, query string, terms []string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	matchStart, matchLen := findMatch(text, query, terms)

	center := matchStart + matchLen/2
	start := center - maxLen/2
	if start > len(runes)-maxLen {
		start = len(runes) - maxLen
	}
	if start < 0 {
		start = 0
	}

	snippet := string(runes[start : start+maxLen])
	if start > 0 {
		snippet = "..." + snippet
	}
	if start+maxLen < len(runes) {
		snippet += "..."
	}
	return snippet
}

// findMatch returns the rune offset and rune length of the strongest
// matching span: the whole query if present, otherwise the first matching
// term, otherwise the text start.
func findMatch(text, query string, terms []string) (int, int) {
	lowerText := strings.ToLower(text)

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		if i := strings.Index(lowerText, q); i >= 0 {
			return utf8.RuneCountInString(text[:i]), utf8.RuneCountInString(q)
		}
	}
	for _, term := range terms {
		if term == "" {
			continue
		}
		if i := strings.Index(lowerText, strings.ToLower(term)); i >= 0 {
			return utf8.RuneCountInString(text[:i]), utf8.RuneCountInString(term)
		}
	}
	return 0, 0
}
