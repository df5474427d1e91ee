package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/memogen/internal/memo"
)

func TestAnswer_SplitsPrompt(t *testing.T) {
	prompt, _ := memo.BuildPrompt("Summarize.", "Acme", 0)
	assert.Equal(t, `Stub answer to "Summarize." based on 4 characters of text.`, answer(prompt))
	assert.Equal(t, "Stub answer: hello", answer(" hello "))
}

func TestChatCompletions(t *testing.T) {
	srv := httptest.NewServer(newMux("m"))
	defer srv.Close()

	body := `{"model":"m","messages":[{"role":"system","content":"s"},{"role":"user","content":"hi"}]}`
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Choices, 1)
	assert.Equal(t, "Stub answer: hi", out.Choices[0].Message.Content)
}

func TestChatCompletions_BadBody(t *testing.T) {
	srv := httptest.NewServer(newMux("m"))
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
