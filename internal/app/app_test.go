package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/memogen/internal/memo"
)

// stubLLM serves an OpenAI-compatible /v1/chat/completions endpoint and
// records the user messages it receives.
type stubLLM struct {
	*httptest.Server
	mu    sync.Mutex
	users []string
	auth  []string
}

func newStubLLM(t *testing.T) *stubLLM {
	t.Helper()
	s := &stubLLM{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := ""
		if len(req.Messages) >= 2 {
			user = req.Messages[1].Content
		}
		s.mu.Lock()
		s.users = append(s.users, user)
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-stub",
			"object":  "chat.completion",
			"created": 1,
			"model":   "stub-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": "  Stub analysis.  "},
			}},
		})
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func writeDeck(t *testing.T, dir string) string {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "Acme Corp founded 2020")
	path := filepath.Join(dir, "deck.pdf")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func writeSecret(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secrets.toml"), []byte(body), 0o600))
}

func testConfig(t *testing.T, base string) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LLMProvider = "compatible"
	cfg.LLMBaseURL = base
	cfg.LLMModel = "stub-model"
	cfg.SecretsDir = filepath.Join(dir, "secrets")
	cfg.OutputPath = filepath.Join(dir, "out", "investment_memo.md")
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

func TestGenerate_WritesMemoAndPDF(t *testing.T) {
	stub := newStubLLM(t)
	cfg := testConfig(t, stub.URL+"/v1")
	writeSecret(t, cfg.SecretsDir, "llm_api_key = \"test-key\"\n")
	cfg.DocumentPath = writeDeck(t, t.TempDir())
	cfg.OutputPDFPath = filepath.Join(filepath.Dir(cfg.OutputPath), "memo.pdf")

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	sess, err := a.Generate(context.Background())
	require.NoError(t, err)

	require.Equal(t, 10, stub.calls())
	for i, u := range stub.users {
		assert.Contains(t, u, "Acme Corp founded 2020", "call %d", i)
		assert.Equal(t, "Bearer test-key", stub.auth[i])
	}

	md, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, sess.Assemble(), string(md))
	assert.True(t, strings.HasPrefix(string(md), "## Executive Summary\nStub analysis.\n\n"), string(md))
	assert.Equal(t, 10, strings.Count(string(md), "## "))

	pdf, err := os.ReadFile(cfg.OutputPDFPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestGenerate_NoCredentialWritesNothing(t *testing.T) {
	stub := newStubLLM(t)
	cfg := testConfig(t, stub.URL+"/v1")
	cfg.DocumentPath = writeDeck(t, t.TempDir())

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	sess, err := a.Generate(context.Background())
	require.ErrorIs(t, err, memo.ErrCredentialMissing)
	require.NotNil(t, sess)
	assert.Zero(t, stub.calls())
	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_NoInput(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/v1")
	writeSecret(t, cfg.SecretsDir, "llm_api_key = \"k\"\n")
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	sess, err := a.Generate(context.Background())
	require.ErrorIs(t, err, memo.ErrInputMissing)
	notices := sess.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, memo.LevelWarning, notices[0].Level)
}

func TestGenerate_MissingDocumentFile(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/v1")
	cfg.DocumentPath = filepath.Join(t.TempDir(), "missing.pdf")
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	_, err = a.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document")
}

func TestGenerate_EchoProviderNeedsNoSecret(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "echo"
	cfg.DocumentPath = writeDeck(t, t.TempDir())

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	sess, err := a.Generate(context.Background())
	require.NoError(t, err)
	for _, s := range sess.Sections() {
		assert.Equal(t, memo.StatusOK, s.Status, s.Name)
		assert.Contains(t, s.Text, "Acme Corp founded 2020")
	}
}

func TestNew_CustomSections(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "echo"
	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - name: Thesis\n    instruction: State the thesis.\n"), 0o644))
	cfg.SectionsPath = path

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, a.Orchestrator().Sections, 1)
	assert.Equal(t, "Thesis", a.Orchestrator().Sections[0].Name)
}

func TestNew_Defaults(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "gemini"
	cfg.LLMModel = ""
	writeSecret(t, cfg.SecretsDir, "llm_api_key = \"k\"\n")

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	g := a.Orchestrator().Generator
	assert.Equal(t, "gemini-2.0-flash", g.Model)
	assert.Equal(t, 900_000, g.PromptCeiling)
	assert.Equal(t, "k", g.Credential)
	assert.NotNil(t, g.Client)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "nope"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestHandler_Healthz(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "echo"
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	h, err := a.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "echo"
	cfg.ServerAddr = "127.0.0.1:0"
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
