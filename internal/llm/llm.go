// Package llm adapts chat-completion backends to the single call the memo
// generator needs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Request is one chat completion: a system message and a user message.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// Model overrides the adapter's configured model when non-empty.
	Model string
}

// Generator produces the assistant text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrTransport marks failures where no response arrived. ErrMalformedResponse
// marks a response that arrived but could not be decoded as a chat completion.
var (
	ErrAuth              = errors.New("llm: authentication failed")
	ErrRateLimited       = errors.New("llm: rate limited")
	ErrUpstream          = errors.New("llm: upstream error")
	ErrEmptyResponse     = errors.New("llm: empty response")
	ErrMalformedResponse = errors.New("llm: malformed response")
	ErrTransport         = errors.New("llm: transport failure")
	ErrUnknownProvider   = errors.New("llm: unknown provider")
	ErrMissingAPIKey     = errors.New("llm: api key required")
	ErrMissingModel      = errors.New("llm: model required")
	ErrMissingBaseURL    = errors.New("llm: base url required")
)

// classifyStatus tags err with the sentinel matching an HTTP status code.
// A zero status means no response was received and err is returned as is.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuth, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case status >= 400:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return err
}

// classifyCallError tags an error that carries no HTTP status. Network and
// context errors become ErrTransport; anything else means a response arrived
// but was unusable.
func classifyCallError(err error) error {
	if isNetworkError(err) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsTransport reports whether err happened before any response arrived
// (dial, TLS, timeout) rather than being returned by the provider.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTransport) || isNetworkError(err)
}
