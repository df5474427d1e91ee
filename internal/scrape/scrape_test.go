package scrape

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/memogen/internal/fetch"
)

func TestText_ArticleBeatsMain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><main><p>Main text</p></main><article><p>Article text</p></article></body></html>`))
	}))
	defer srv.Close()

	s := Scraper{Fetch: &fetch.Client{}}
	text, err := s.Text(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Article text", text)
}

func TestText_ParsesNonHTMLContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(`<article>Acme raised $2M</article>`))
	}))
	defer srv.Close()

	s := Scraper{Fetch: &fetch.Client{}}
	text, err := s.Text(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme raised $2M", text)
}

func TestText_UnreachableHost(t *testing.T) {
	// Grab a free port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := Scraper{Fetch: &fetch.Client{}}
	text, err := s.Text(context.Background(), "http://"+addr+"/")
	require.Error(t, err)
	assert.Empty(t, text)
}

func TestText_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := Scraper{Fetch: &fetch.Client{}}
	_, err := s.Text(context.Background(), srv.URL)
	var se *fetch.StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
}

func TestText_NoGetter(t *testing.T) {
	_, err := Scraper{}.Text(context.Background(), "http://example.invalid")
	assert.ErrorIs(t, err, ErrNoGetter)
}
