package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// TOMLStore reads top-level string keys from a TOML file:
//
//	llm_api_key = "sk-..."
type TOMLStore struct {
	Path string
}

func (s TOMLStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read %s: %w", s.Path, err)
	}
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("parse %s: %w", s.Path, err)
	}
	raw, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: %q is not a string", s.Path, key)
	}
	if strings.TrimSpace(v) == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// DotenvStore reads KEY=value pairs without exporting them to the process
// environment.
type DotenvStore struct {
	Path string
}

func (s DotenvStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	values, err := godotenv.Read(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("parse %s: %w", s.Path, err)
	}
	v, ok := values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// DirStore keeps one secret per file: the file name is the key and the
// trimmed contents are the value.
type DirStore struct {
	root string
}

func NewDirStore(root string) DirStore {
	return DirStore{root: filepath.Clean(root)}
}

func (s DirStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read secret %q: %w", key, err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (s DirStore) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}
	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." || strings.ContainsRune(cleaned, filepath.Separator) {
		return "", fmt.Errorf("invalid secret key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}
