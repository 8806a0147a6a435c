package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_ASCIIWords(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("The gradient descent")
	assert.Equal(t, []string{"gradient", "descent"}, tokens)
}

func TestTokenize_StopWordsDropped(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("what is the answer")
	assert.Equal(t, []string{"answer"}, tokens)
}

func TestTokenize_CJKBigrams(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("機械学習")
	assert.Equal(t, []string{"機械", "械学", "学習"}, tokens)
}

func TestTokenize_SingleCJKCharKept(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("木")
	assert.Equal(t, []string{"木"}, tokens)
}

func TestTokenize_MixedScripts(t *testing.T) {
	tok := NewTokenizer()

	// The script switch closes the CJK run before the ASCII word starts.
	tokens := tok.Tokenize("CNNは畳み込み")
	assert.Contains(t, tokens, "cnn")
	assert.Contains(t, tokens, "畳み")
	assert.Contains(t, tokens, "み込")
	assert.Contains(t, tokens, "込み")
}

func TestTokenize_QueryAndDocumentAgree(t *testing.T) {
	tok := NewTokenizer()

	doc := tok.Tokenize("ニューラルネットワークの学習")
	query := tok.Tokenize("ニューラル")
	for _, q := range query {
		assert.Contains(t, doc, q)
	}
}

func TestTokenize_Empty(t *testing.T) {
	tok := NewTokenizer()

	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   ,,, ---"))
}

func TestStem_CommonSuffixes(t *testing.T) {
	cases := map[string]string{
		"networks":   "network",
		"queries":    "queri",
		"training":   "train",
		"classified": "classifi",
		"loss":       "loss",
		"cnn":        "cnn",
	}
	for in, want := range cases {
		assert.Equal(t, want, stem(in), "stem(%q)", in)
	}
}
