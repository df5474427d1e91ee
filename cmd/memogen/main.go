package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/memogen/internal/app"
	"github.com/hyperifyio/memogen/internal/memo"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("memogen failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps missing input, empty extraction and a missing credential to
// 2 so scripts can tell them apart from runtime failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, memo.ErrInputMissing),
		errors.Is(err, memo.ErrExtractionEmpty),
		errors.Is(err, memo.ErrCredentialMissing):
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	var configPath string

	root := &cobra.Command{
		Use:           "memogen",
		Short:         "Draft an investment memo from a pitch deck and a company website",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				fc, err := app.LoadConfigFile(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				app.ApplyFileConfig(&cfg, fc)
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose logging")
	f.StringVar(&cfg.LLMProvider, "provider", cfg.LLMProvider, "LLM provider: openai, openrouter, gemini, compatible or echo")
	f.StringVar(&cfg.LLMModel, "model", cfg.LLMModel, "Model name (provider default when empty)")
	f.StringVar(&cfg.LLMBaseURL, "llm.base", cfg.LLMBaseURL, "OpenAI-compatible base URL")
	f.StringVar(&cfg.LLMReferer, "llm.referer", cfg.LLMReferer, "HTTP-Referer attribution header for gateways")
	f.StringVar(&cfg.LLMTitle, "llm.title", cfg.LLMTitle, "X-Title attribution header for gateways")
	f.IntVar(&cfg.PromptCeiling, "prompt.ceiling", cfg.PromptCeiling, "Prompt size limit in characters (provider default when 0)")
	f.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature")
	f.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Maximum tokens per section")
	f.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Timeout for one model call")
	f.StringVar(&cfg.SystemPrompt, "system-prompt", cfg.SystemPrompt, "Override the analyst system prompt")
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Sections generated in parallel")
	f.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent for the website fetch")
	f.StringVar(&cfg.SecretsDir, "secrets-dir", cfg.SecretsDir, "Directory holding secrets.toml, secrets.env or secrets/")
	f.StringVar(&cfg.SecretKey, "secret-key", cfg.SecretKey, "Name of the API key secret")
	f.StringVar(&cfg.SectionsPath, "sections", cfg.SectionsPath, "YAML file replacing the built-in memo sections")

	root.AddCommand(
		newGenerateCmd(&cfg),
		newServeCmd(&cfg),
		newVersionCmd(),
	)
	return root
}

func newGenerateCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a memo once and write it to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			sess, err := a.Generate(cmd.Context())
			if sess != nil {
				for _, n := range sess.Notices() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Level, n.Message)
				}
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.DocumentPath, "document", cfg.DocumentPath, "Pitch deck (.pdf or .pptx)")
	f.StringVar(&cfg.URL, "url", cfg.URL, "Company website URL")
	f.StringVarP(&cfg.OutputPath, "out", "o", cfg.OutputPath, "Markdown output path")
	f.StringVar(&cfg.OutputPDFPath, "pdf", cfg.OutputPDFPath, "Optional PDF output path")
	return cmd
}

func newServeCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfg.ServerAddr, "addr", cfg.ServerAddr, "Listen address")
	cmd.Flags().IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "Sessions kept in memory (0 = default)")
	cmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "How long a session is kept (0 = default)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.VersionString())
			return err
		},
	}
}
