package app

import (
	"time"

	"github.com/hyperifyio/memogen/internal/memo"
)

// Defaults shared by the CLI flags and the file config overlay.
const (
	DefaultOutputPath     = "investment_memo.md"
	DefaultServerAddr     = ":8080"
	DefaultProvider       = "openai"
	DefaultSecretsDir     = ".memogen"
	DefaultSecretKey      = "llm_api_key"
	DefaultUserAgent      = "memogen/1.0 (+https://github.com/hyperifyio/memogen)"
	DefaultConcurrency    = 1
	DefaultRequestTimeout = memo.DefaultRequestTimeout
)

// Config holds runtime configuration for the memo generator.
type Config struct {
	// One-shot inputs and outputs
	DocumentPath  string
	URL           string
	OutputPath    string
	OutputPDFPath string

	ServerAddr string
	// MaxSessions and SessionTTL bound the server's in-memory sessions.
	MaxSessions int
	SessionTTL  time.Duration

	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMReferer  string
	LLMTitle    string

	// PromptCeiling is the prompt size limit in characters. Zero selects the
	// provider default.
	PromptCeiling  int
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
	SystemPrompt   string
	Concurrency    int

	UserAgent string

	SecretsDir string
	SecretKey  string

	// SectionsPath points at a YAML file replacing the built-in section list.
	SectionsPath string

	Verbose bool
}

// DefaultConfig returns the configuration used when neither flags nor a
// config file say otherwise.
func DefaultConfig() Config {
	return Config{
		OutputPath:     DefaultOutputPath,
		ServerAddr:     DefaultServerAddr,
		LLMProvider:    DefaultProvider,
		Temperature:    memo.DefaultTemperature,
		MaxTokens:      memo.DefaultMaxTokens,
		RequestTimeout: DefaultRequestTimeout,
		Concurrency:    DefaultConcurrency,
		UserAgent:      DefaultUserAgent,
		SecretsDir:     DefaultSecretsDir,
		SecretKey:      DefaultSecretKey,
	}
}
