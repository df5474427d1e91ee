// Package secrets reads the LLM credential from local, non-source-controlled
// files. Nothing is read from the process environment.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultKey is the well-known name of the LLM API key.
const DefaultKey = "llm_api_key"

// ErrNotFound means the store has no value for the key. A missing backing
// file is reported the same way.
var ErrNotFound = errors.New("secret not found")

// Store looks up one secret by key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Chain tries each store in order and returns the first value found.
type Chain []Store

func (c Chain) Get(ctx context.Context, key string) (string, error) {
	for _, s := range c {
		v, err := s.Get(ctx, key)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, key)
}

// Default returns the standard lookup order under dir: secrets.toml, then
// secrets.env, then one file per key in secrets/.
func Default(dir string) Chain {
	return Chain{
		TOMLStore{Path: filepath.Join(dir, "secrets.toml")},
		DotenvStore{Path: filepath.Join(dir, "secrets.env")},
		NewDirStore(filepath.Join(dir, "secrets")),
	}
}

// LoadCredential returns the trimmed value of key, or "" when no store has
// it. Absence is not an error.
func LoadCredential(ctx context.Context, s Store, key string) (string, error) {
	if key == "" {
		key = DefaultKey
	}
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		log.Warn().Str("key", key).Msg("no API key configured; generation is disabled")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load secret %q: %w", key, err)
	}
	return strings.TrimSpace(v), nil
}
