package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSnippet_ShortTextReturnedWhole(t *testing.T) {
	text := "短い問題文"
	assert.Equal(t, text, buildSnippet(text, "問題", nil, 160))
}

func TestBuildSnippet_WindowCentersOnQuery(t *testing.T) {
	text := strings.Repeat("あ", 200) + "過学習" + strings.Repeat("い", 200)

	snippet := buildSnippet(text, "過学習", nil, 40)

	assert.Contains(t, snippet, "過学習")
	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len([]rune(snippet)), 46)
}

func TestBuildSnippet_FallsBackToTerm(t *testing.T) {
	text := strings.Repeat("あ", 100) + "勾配降下" + strings.Repeat("い", 100)

	// The raw query does not occur; the first matching term anchors the window.
	snippet := buildSnippet(text, "勾配法", []string{"勾配"}, 40)

	assert.Contains(t, snippet, "勾配")
}

func TestBuildSnippet_NoMatchStartsAtHead(t *testing.T) {
	text := strings.Repeat("あ", 50) + strings.Repeat("い", 50)

	snippet := buildSnippet(text, "なし", nil, 20)

	assert.True(t, strings.HasPrefix(snippet, "あ"))
	assert.True(t, strings.HasSuffix(snippet, "..."))
}
