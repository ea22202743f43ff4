// Package file is the JSON-file implementation of the cache store. The cache
// is a single document loaded wholesale and written back atomically.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

var _ driven.CacheStore = (*Store)(nil)

// Store persists the cache as pretty-printed JSON at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cache. A missing file yields an empty cache; an unreadable
// or undecodable file is fatal for the batch, wrapping domain.ErrCacheCorrupt
// in the decode case.
func (s *Store) Load(ctx context.Context) (*domain.Cache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no cache at %s, starting empty", s.path)
			return domain.NewCache(), nil
		}
		return nil, fmt.Errorf("reading cache %s: %w", s.path, err)
	}

	var cache domain.Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCacheCorrupt, s.path, err)
	}
	if cache.Version > domain.CacheVersion {
		return nil, fmt.Errorf("%w: %s: cache version %d is newer than supported version %d",
			domain.ErrCacheCorrupt, s.path, cache.Version, domain.CacheVersion)
	}

	logger.Debug("loaded cache %s with %d entries", s.path, len(cache.Entries))
	return &cache, nil
}

// Save writes the cache to a temporary file in the target directory and
// renames it into place, so readers never observe a partial cache.
func (s *Store) Save(ctx context.Context, cache *domain.Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache folder %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing cache %s: %w", s.path, err)
	}
	return nil
}
