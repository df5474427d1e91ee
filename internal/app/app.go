package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/export"
	"github.com/hyperifyio/memogen/internal/fetch"
	"github.com/hyperifyio/memogen/internal/llm"
	"github.com/hyperifyio/memogen/internal/memo"
	"github.com/hyperifyio/memogen/internal/scrape"
	"github.com/hyperifyio/memogen/internal/secrets"
	"github.com/hyperifyio/memogen/internal/server"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// echoCredential stands in for an API key with the echo provider, which
// never talks to a network service.
const echoCredential = "echo"

type App struct {
	cfg  Config
	orch *memo.Orchestrator
}

// New validates cfg, loads the credential from the secret store and wires
// the pipeline. A missing credential is not an error here: generation
// reports it when a memo is requested.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	store := secrets.Default(cfg.SecretsDir)
	credential, err := secrets.LoadCredential(ctx, store, cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if provider == llm.ProviderEcho && credential == "" {
		credential = echoCredential
	}

	var client llm.Generator
	if credential != "" {
		client, err = llm.New(llm.Settings{
			Provider:   provider,
			Model:      cfg.LLMModel,
			BaseURL:    cfg.LLMBaseURL,
			APIKey:     credential,
			Referer:    cfg.LLMReferer,
			Title:      cfg.LLMTitle,
			HTTPClient: newLLMHTTPClient(cfg.RequestTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
	}

	sections := memo.DefaultSections()
	if cfg.SectionsPath != "" {
		sections, err = memo.LoadSections(cfg.SectionsPath)
		if err != nil {
			return nil, err
		}
	}

	model := cfg.LLMModel
	if model == "" {
		model = llm.DefaultModel(provider)
	}
	ceiling := cfg.PromptCeiling
	if ceiling == 0 {
		ceiling = llm.DefaultPromptCeiling(provider)
	}

	orch := &memo.Orchestrator{
		Web: scrape.Scraper{
			Fetch: &fetch.Client{
				HTTPClient: newFetchHTTPClient(),
				UserAgent:  cfg.UserAgent,
			},
		},
		Generator: &memo.SectionGenerator{
			Client:         client,
			Credential:     credential,
			Model:          model,
			PromptCeiling:  ceiling,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			SystemPrompt:   cfg.SystemPrompt,
			RequestTimeout: cfg.RequestTimeout,
		},
		Sections:    sections,
		Concurrency: cfg.Concurrency,
	}

	log.Debug().
		Str("provider", provider).
		Str("model", model).
		Int("ceiling", ceiling).
		Int("sections", len(sections)).
		Bool("credential", credential != "").
		Msg("pipeline configured")

	return &App{cfg: cfg, orch: orch}, nil
}

// Orchestrator exposes the wired pipeline.
func (a *App) Orchestrator() *memo.Orchestrator { return a.orch }

func (a *App) input() (memo.Input, error) {
	in := memo.Input{URL: strings.TrimSpace(a.cfg.URL)}
	if a.cfg.DocumentPath == "" {
		return in, nil
	}
	data, err := os.ReadFile(a.cfg.DocumentPath)
	if err != nil {
		return in, fmt.Errorf("read document: %w", err)
	}
	in.DocumentName = filepath.Base(a.cfg.DocumentPath)
	in.Document = data
	in.DocumentSupplied = true
	return in, nil
}

// Generate runs the pipeline once on the configured inputs and writes the
// assembled memo to OutputPath, plus a PDF copy when OutputPDFPath is set.
// The session is returned even when a precondition fails so callers can
// inspect its notices.
func (a *App) Generate(ctx context.Context) (*memo.Session, error) {
	in, err := a.input()
	if err != nil {
		return nil, err
	}
	sess := memo.NewSession(in)
	if err := a.orch.Run(ctx, sess, in, progressLog{}); err != nil {
		return sess, err
	}

	markdown := sess.Assemble()
	if err := writeFile(a.cfg.OutputPath, export.FormatMarkdown, markdown); err != nil {
		return sess, err
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote memo")

	if a.cfg.OutputPDFPath != "" {
		if err := writeFile(a.cfg.OutputPDFPath, export.FormatPDF, markdown); err != nil {
			return sess, err
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}

	summarize(sess.Sections())
	return sess, nil
}

func writeFile(path string, f export.Format, markdown string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(out, f, markdown); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func summarize(sections []memo.Section) {
	counts := map[memo.Status]int{}
	for _, s := range sections {
		counts[s.Status]++
	}
	ev := log.Info()
	if counts[memo.StatusFailed] > 0 || counts[memo.StatusSkipped] > 0 {
		ev = log.Warn()
	}
	ev.Int("ok", counts[memo.StatusOK]).
		Int("failed", counts[memo.StatusFailed]).
		Int("skipped", counts[memo.StatusSkipped]).
		Msg("memo sections")
}

// progressLog reports section progress of one-shot runs.
type progressLog struct{}

func (progressLog) SectionStarted(i int, name string) {
	log.Info().Int("index", i).Str("section", name).Msg("generating")
}

func (progressLog) SectionFinished(i int, s memo.Section) {
	ev := log.Debug()
	if s.Status != memo.StatusOK {
		ev = log.Warn()
	}
	ev.Int("index", i).Str("section", s.Name).Str("status", string(s.Status)).Msg("section done")
}

// Handler returns the HTTP API backed by the wired pipeline.
func (a *App) Handler() (http.Handler, error) {
	srv, err := server.New(a.orch, server.WithSessionLimits(a.cfg.MaxSessions, a.cfg.SessionTTL))
	if err != nil {
		return nil, err
	}
	return srv.Routes(), nil
}

// Serve listens on ServerAddr until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              a.cfg.ServerAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.ServerAddr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
