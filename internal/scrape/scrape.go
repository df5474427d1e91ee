// Package scrape turns a web page URL into readable text.
package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/extract"
)

// Getter fetches a page body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// ErrNoGetter is returned when a Scraper has no Getter configured.
var ErrNoGetter = errors.New("scrape: no fetcher configured")

// Scraper fetches a page once and extracts its main content.
type Scraper struct {
	Fetch     Getter
	Extractor extract.Extractor
}

// Text returns the extracted text of url. Any fetch failure is returned
// wrapped; callers decide how to surface it.
func (s Scraper) Text(ctx context.Context, url string) (string, error) {
	if s.Fetch == nil {
		return "", ErrNoGetter
	}
	body, _, err := s.Fetch.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	ex := s.Extractor
	if ex == nil {
		ex = extract.SelectorExtractor{}
	}
	doc := ex.Extract(body)
	log.Debug().Str("url", url).Str("title", doc.Title).Str("selector", doc.Selector).Int("chars", len(doc.Text)).Msg("scraped page")
	return doc.Text, nil
}
