package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/option"
	openai "github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderCompatible = "compatible"
	ProviderEcho       = "echo"
)

const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	GeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
)

var defaultModels = map[string]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "gemini-2.0-flash",
}

// Settings selects and configures a backend.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	// Referer and Title become the HTTP-Referer and X-Title attribution
	// headers on gateway requests when set.
	Referer    string
	Title      string
	HTTPClient *http.Client
}

// DefaultModel returns the preset model for provider, or "" when the
// provider has none.
func DefaultModel(provider string) string {
	return defaultModels[normalizeProvider(provider)]
}

// DefaultPromptCeiling returns the prompt size limit in characters used when
// no ceiling is configured.
func DefaultPromptCeiling(provider string) int {
	if normalizeProvider(provider) == ProviderGemini {
		return 900_000
	}
	return 28_000
}

func normalizeProvider(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

// New builds the Generator for s.Provider.
func New(s Settings) (Generator, error) {
	provider := normalizeProvider(s.Provider)
	if provider == ProviderEcho {
		return Echo{}, nil
	}
	if s.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := s.Model
	if model == "" {
		model = DefaultModel(provider)
	}
	if model == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingModel, provider)
	}

	switch provider {
	case ProviderOpenAI:
		opts := []option.RequestOption{option.WithAPIKey(s.APIKey), option.WithMaxRetries(0)}
		if s.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(withTrailingSlash(s.BaseURL)))
		}
		if s.HTTPClient != nil {
			opts = append(opts, option.WithHTTPClient(s.HTTPClient))
		}
		return &OpenAI{Model: model, Opts: opts}, nil
	case ProviderOpenRouter, ProviderGemini, ProviderCompatible:
		base := s.BaseURL
		if base == "" {
			switch provider {
			case ProviderOpenRouter:
				base = OpenRouterBaseURL
			case ProviderGemini:
				base = GeminiBaseURL
			default:
				return nil, ErrMissingBaseURL
			}
		}
		cfg := openai.DefaultConfig(s.APIKey)
		cfg.BaseURL = strings.TrimRight(base, "/")
		cfg.HTTPClient = attributionClient(s.HTTPClient, s.Referer, s.Title)
		return &Gateway{Client: openai.NewClientWithConfig(cfg), Model: model}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
