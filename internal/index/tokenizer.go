package index

import (
	"strings"
	"unicode"
)

// Common English stop words, dropped from ASCII tokens.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "were": true,
	"with": true, "this": true, "but": true, "they": true, "have": true,
	"what": true, "when": true, "where": true, "which": true, "how": true,
	"not": true, "can": true, "do": true, "does": true,
}

// Tokenizer splits text into index terms. ASCII runs become lowercased word
// tokens; CJK runs become character bigrams so Japanese text is searchable
// without a dictionary segmenter.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize returns the terms of the text in occurrence order. Both document
// text and query text go through the same path, so overlapping terms line up.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var ascii []rune
	var cjk []rune

	flushASCII := func() {
		if len(ascii) == 0 {
			return
		}
		word := strings.ToLower(string(ascii))
		ascii = ascii[:0]
		if stopWords[word] {
			return
		}
		tokens = append(tokens, stem(word))
	}
	flushCJK := func() {
		if len(cjk) == 0 {
			return
		}
		if len(cjk) == 1 {
			tokens = append(tokens, string(cjk))
		}
		for i := 0; i+1 < len(cjk); i++ {
			tokens = append(tokens, string(cjk[i:i+2]))
		}
		cjk = cjk[:0]
	}

	for _, r := range text {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			flushCJK()
			ascii = append(ascii, r)
		case isCJK(r):
			flushASCII()
			cjk = append(cjk, r)
		default:
			flushASCII()
			flushCJK()
		}
	}
	flushASCII()
	flushCJK()

	return tokens
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

// stem strips the most common English suffixes. It is deliberately shallow;
// exactness matters less than mapping obvious inflections together.
func stem(word string) string {
	if len(word) < 4 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ies"):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
	case strings.HasSuffix(word, "s"):
		word = word[:len(word)-1]
	}
	switch {
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		word = word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		word = word[:len(word)-2]
	}
	return word
}
