package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/memogen/internal/llm"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Document  string `yaml:"document" json:"document"`
	URL       string `yaml:"url" json:"url"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

	Server struct {
		Addr        string        `yaml:"addr" json:"addr"`
		MaxSessions int           `yaml:"maxSessions" json:"maxSessions"`
		SessionTTL  time.Duration `yaml:"sessionTTL" json:"sessionTTL"`
	} `yaml:"server" json:"server"`

	LLM struct {
		Provider       string        `yaml:"provider" json:"provider"`
		BaseURL        string        `yaml:"base" json:"base"`
		Model          string        `yaml:"model" json:"model"`
		Referer        string        `yaml:"referer" json:"referer"`
		Title          string        `yaml:"title" json:"title"`
		PromptCeiling  int           `yaml:"promptCeiling" json:"promptCeiling"`
		Temperature    *float64      `yaml:"temperature" json:"temperature"`
		MaxTokens      int           `yaml:"maxTokens" json:"maxTokens"`
		RequestTimeout time.Duration `yaml:"requestTimeout" json:"requestTimeout"`
		SystemPrompt   string        `yaml:"systemPrompt" json:"systemPrompt"`
		Concurrency    int           `yaml:"concurrency" json:"concurrency"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		UA string `yaml:"ua" json:"ua"`
	} `yaml:"fetch" json:"fetch"`

	Secrets struct {
		Dir string `yaml:"dir" json:"dir"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"secrets" json:"secrets"`

	Sections string `yaml:"sections" json:"sections"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any field still at its
// zero value or flag default. Explicit flags win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	d := DefaultConfig()

	if cfg.DocumentPath == "" && fc.Document != "" {
		cfg.DocumentPath = fc.Document
	}
	if cfg.URL == "" && fc.URL != "" {
		cfg.URL = fc.URL
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == d.OutputPath) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if (cfg.ServerAddr == "" || cfg.ServerAddr == d.ServerAddr) && fc.Server.Addr != "" {
		cfg.ServerAddr = fc.Server.Addr
	}
	if cfg.MaxSessions == 0 && fc.Server.MaxSessions > 0 {
		cfg.MaxSessions = fc.Server.MaxSessions
	}
	if cfg.SessionTTL == 0 && fc.Server.SessionTTL > 0 {
		cfg.SessionTTL = fc.Server.SessionTTL
	}

	if (cfg.LLMProvider == "" || cfg.LLMProvider == d.LLMProvider) && fc.LLM.Provider != "" {
		cfg.LLMProvider = fc.LLM.Provider
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMReferer == "" && fc.LLM.Referer != "" {
		cfg.LLMReferer = fc.LLM.Referer
	}
	if cfg.LLMTitle == "" && fc.LLM.Title != "" {
		cfg.LLMTitle = fc.LLM.Title
	}
	if cfg.PromptCeiling == 0 && fc.LLM.PromptCeiling > 0 {
		cfg.PromptCeiling = fc.LLM.PromptCeiling
	}
	// Temperature 0 is meaningful, so the file value is a pointer.
	if cfg.Temperature == d.Temperature && fc.LLM.Temperature != nil {
		cfg.Temperature = *fc.LLM.Temperature
	}
	if (cfg.MaxTokens == 0 || cfg.MaxTokens == d.MaxTokens) && fc.LLM.MaxTokens > 0 {
		cfg.MaxTokens = fc.LLM.MaxTokens
	}
	if (cfg.RequestTimeout == 0 || cfg.RequestTimeout == d.RequestTimeout) && fc.LLM.RequestTimeout > 0 {
		cfg.RequestTimeout = fc.LLM.RequestTimeout
	}
	if cfg.SystemPrompt == "" && fc.LLM.SystemPrompt != "" {
		cfg.SystemPrompt = fc.LLM.SystemPrompt
	}
	if (cfg.Concurrency == 0 || cfg.Concurrency == d.Concurrency) && fc.LLM.Concurrency > 0 {
		cfg.Concurrency = fc.LLM.Concurrency
	}

	if (cfg.UserAgent == "" || cfg.UserAgent == d.UserAgent) && fc.Fetch.UA != "" {
		cfg.UserAgent = fc.Fetch.UA
	}
	if (cfg.SecretsDir == "" || cfg.SecretsDir == d.SecretsDir) && fc.Secrets.Dir != "" {
		cfg.SecretsDir = fc.Secrets.Dir
	}
	if (cfg.SecretKey == "" || cfg.SecretKey == d.SecretKey) && fc.Secrets.Key != "" {
		cfg.SecretKey = fc.Secrets.Key
	}
	if cfg.SectionsPath == "" && fc.Sections != "" {
		cfg.SectionsPath = fc.Sections
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

var knownProviders = map[string]bool{
	llm.ProviderOpenAI:     true,
	llm.ProviderOpenRouter: true,
	llm.ProviderGemini:     true,
	llm.ProviderCompatible: true,
	llm.ProviderEcho:       true,
}

// ValidateConfig performs minimal schema validation. Missing inputs are not
// a config error: the pipeline reports them as a notice.
func ValidateConfig(cfg Config) error {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if provider != "" && !knownProviders[provider] {
		return fmt.Errorf("config: unknown llm.provider %q", cfg.LLMProvider)
	}
	if provider == llm.ProviderCompatible && strings.TrimSpace(cfg.LLMBaseURL) == "" {
		return errors.New("config: llm.base is required for the compatible provider")
	}
	if cfg.PromptCeiling < 0 || cfg.MaxTokens < 0 || cfg.Concurrency < 0 || cfg.RequestTimeout < 0 ||
		cfg.MaxSessions < 0 || cfg.SessionTTL < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("config: llm.temperature %v outside [0, 2]", cfg.Temperature)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return errors.New("config: secrets.key must not be empty")
	}
	return nil
}
