package memo

import "unicode/utf8"

const (
	PromptSeparator  = "\n\nHere is the relevant document text to analyze:\n\n"
	TruncationMarker = "...\n(Text truncated due to length)"
)

// BuildPrompt joins instruction and text with PromptSeparator. When the
// result is longer than ceiling characters, only text is shortened so the
// prompt before the marker is exactly ceiling characters, and
// TruncationMarker is appended. The instruction is never cut, even when it
// alone exceeds the ceiling. A ceiling <= 0 disables truncation.
func BuildPrompt(instruction, text string, ceiling int) (prompt string, truncated bool) {
	head := instruction + PromptSeparator
	if ceiling <= 0 || utf8.RuneCountInString(head)+utf8.RuneCountInString(text) <= ceiling {
		return head + text, false
	}
	room := ceiling - utf8.RuneCountInString(head)
	if room < 0 {
		room = 0
	}
	return head + firstRunes(text, room) + TruncationMarker, true
}

// firstRunes returns the prefix of s holding at most n runes.
func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
