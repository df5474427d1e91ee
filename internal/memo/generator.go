package memo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/budget"
	"github.com/hyperifyio/memogen/internal/llm"
)

const (
	DefaultSystemPrompt = "You are a venture capital analyst drafting an investment memo. " +
		"Use only the supplied document text. When the text does not contain the requested information, say so plainly."
	DefaultTemperature    = 0.2
	DefaultMaxTokens      = 1024
	DefaultRequestTimeout = 60 * time.Second
)

var errNoClient = errors.New("no language model client configured")

// NoCredentialMessage is returned in place of content when no API key is
// configured.
func NoCredentialMessage(name string) string {
	return fmt.Sprintf("Please provide an API key in the secret store to generate %s.", name)
}

// FailureMessage is the inline text of a section whose generation failed.
func FailureMessage(name string, err error) string {
	return fmt.Sprintf("Could not generate %s. Error: %v", name, err)
}

// SectionGenerator turns one section spec plus the extracted text into a
// single model call.
type SectionGenerator struct {
	Client     llm.Generator
	Credential string
	// Model is passed through to the client and used for context budget
	// warnings. Empty means the client's default.
	Model string
	// PromptCeiling is the maximum prompt size in characters before the
	// document text is truncated. Zero disables truncation.
	PromptCeiling  int
	Temperature    float64
	MaxTokens      int
	SystemPrompt   string
	RequestTimeout time.Duration
}

// Generate never fails: every error becomes an inline message on the
// returned Section and an error notice.
func (g *SectionGenerator) Generate(ctx context.Context, spec SectionSpec, text string, n Notifier) Section {
	if g.Credential == "" {
		return Section{Name: spec.Name, Text: NoCredentialMessage(spec.Name), Status: StatusSkipped}
	}
	if g.Client == nil {
		return g.failed(spec.Name, errNoClient, FailureGeneration, n)
	}

	prompt, truncated := BuildPrompt(spec.Instruction, text, g.PromptCeiling)
	if truncated {
		log.Debug().Str("section", spec.Name).Int("ceiling", g.PromptCeiling).Msg("document text truncated")
	}
	system := g.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if g.Model != "" {
		est := budget.EstimatePromptTokens(system, prompt)
		if !budget.FitsInContext(g.Model, maxTokens, est) {
			log.Warn().Str("section", spec.Name).Str("model", g.Model).Int("estimated_tokens", est).
				Int("context_tokens", budget.ModelContextTokens(g.Model)).Msg("prompt may exceed model context")
		}
	}

	timeout := g.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := g.Client.Generate(callCtx, llm.Request{
		System:      system,
		User:        prompt,
		Temperature: g.Temperature,
		MaxTokens:   maxTokens,
		Model:       g.Model,
	})
	if err != nil {
		kind := FailureGeneration
		if llm.IsTransport(err) {
			kind = FailureNetwork
		}
		return g.failed(spec.Name, err, kind, n)
	}
	log.Debug().Str("section", spec.Name).Dur("took", time.Since(start)).Int("chars", len(out)).Msg("section generated")
	return Section{Name: spec.Name, Text: strings.TrimSpace(out), Status: StatusOK}
}

func (g *SectionGenerator) failed(name string, err error, kind FailureKind, n Notifier) Section {
	notify(n, LevelError, SourceGenerator, fmt.Sprintf("Error generating %s: %v", name, err))
	return Section{Name: name, Text: FailureMessage(name, err), Status: StatusFailed, Failure: kind}
}
