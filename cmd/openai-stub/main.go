// Command openai-stub serves a minimal OpenAI-compatible chat endpoint for
// manual end-to-end runs of memogen without a real provider. Each answer
// restates the section instruction and the size of the analyzed text.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/memo"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	addr := flag.String("addr", ":8081", "Listen address")
	model := flag.String("model", "stub-model", "Model id reported by /v1/models")
	flag.Parse()

	log.Info().Str("addr", *addr).Str("model", *model).Msg("openai-stub listening")
	if err := http.ListenAndServe(*addr, newMux(*model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		user := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				user = m.Content
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-stub",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": answer(user)},
			}},
		})
	})
	return mux
}

// answer splits the prompt the way memogen builds it and restates its parts.
func answer(prompt string) string {
	instruction, text, found := strings.Cut(prompt, memo.PromptSeparator)
	if !found {
		return "Stub answer: " + strings.TrimSpace(prompt)
	}
	return fmt.Sprintf("Stub answer to %q based on %d characters of text.",
		strings.TrimSpace(instruction), len([]rune(text)))
}
