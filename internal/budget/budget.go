// Package budget estimates prompt size against a model's context window.
package budget

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// EstimatePromptTokens estimates the total tokens of a system plus user
// message pair.
func EstimatePromptTokens(system, user string) int {
	return EstimateTokens(system) + EstimateTokens(user)
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Gateway routing prefixes ("google/", "openai/") are ignored.
// Unknown models fall back to a conservative default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if v, ok := knownModelMax[name[i+1:]]; ok {
			return v
		}
		name = name[i+1:]
	}
	if strings.HasPrefix(name, "gemini-") {
		return 1_048_576
	}
	if m := suffixRe.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		if m[2] == "m" {
			return n * 1_000_000
		}
		return n * 1_000
	}
	if strings.Contains(name, "-mini") {
		return 128_000
	}
	return 8192
}

// RemainingContext computes the remaining input token budget given a model,
// a reservation for output generation, and the estimated prompt tokens.
// The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FitsInContext reports whether the prompt fits into the model's context
// window when reserving the specified number of output tokens.
func FitsInContext(modelName string, reservedForOutput int, promptTokens int) bool {
	return RemainingContext(modelName, reservedForOutput, promptTokens) > 0
}

var knownModelMax = map[string]int{
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-4.1":       1_047_576,
	"gpt-4.1-mini":  1_047_576,
	"gpt-3.5-turbo": 16_384,

	"gemini-1.5-pro":   2_097_152,
	"gemini-1.5-flash": 1_048_576,
	"gemini-2.0-flash": 1_048_576,
	"gemini-2.5-flash": 1_048_576,
	"gemini-2.5-pro":   1_048_576,

	"claude-3-5-sonnet": 200_000,
	"claude-3-haiku":    200_000,

	"llama-3":   8_192,
	"llama-3.1": 128_000,
}

var suffixRe = regexp.MustCompile(`-(\d+)(k|m)$`)
