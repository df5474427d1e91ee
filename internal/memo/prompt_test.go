package memo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_UnderCeiling(t *testing.T) {
	p, truncated := BuildPrompt("Summarize.", "Acme builds rockets.", 28_000)
	assert.False(t, truncated)
	assert.Equal(t, "Summarize.\n\nHere is the relevant document text to analyze:\n\nAcme builds rockets.", p)
}

func TestBuildPrompt_TruncatesTextOnly(t *testing.T) {
	instruction := "Identify the core problem."
	text := strings.Repeat("x", 50_000)
	p, truncated := BuildPrompt(instruction, text, 28_000)
	assert.True(t, truncated)
	assert.True(t, strings.HasPrefix(p, instruction+PromptSeparator))
	assert.True(t, strings.HasSuffix(p, TruncationMarker))
	assert.Equal(t, 28_000, utf8.RuneCountInString(strings.TrimSuffix(p, TruncationMarker)))
}

func TestBuildPrompt_InstructionLongerThanCeiling(t *testing.T) {
	instruction := strings.Repeat("i", 100)
	p, truncated := BuildPrompt(instruction, "document", 10)
	assert.True(t, truncated)
	assert.Equal(t, instruction+PromptSeparator+TruncationMarker, p)
}

func TestBuildPrompt_RuneSafe(t *testing.T) {
	head := "I" + PromptSeparator
	ceiling := utf8.RuneCountInString(head) + 3
	p, truncated := BuildPrompt("I", "äöüßé", ceiling)
	assert.True(t, truncated)
	assert.Equal(t, head+"äöü"+TruncationMarker, p)
	assert.True(t, utf8.ValidString(p))
}

func TestBuildPrompt_ZeroCeilingDisablesTruncation(t *testing.T) {
	text := strings.Repeat("y", 100_000)
	p, truncated := BuildPrompt("I", text, 0)
	assert.False(t, truncated)
	assert.True(t, strings.HasSuffix(p, text))
}
