// Package memory is an in-memory cache store for tests and dry runs.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
)

var _ driven.CacheStore = (*Store)(nil)

// Store holds the cache as its JSON encoding, mirroring the persistence
// boundary of the file store.
type Store struct {
	mu   sync.Mutex
	data []byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Path identifies the store in diagnostics.
func (s *Store) Path() string {
	return "memory"
}

// Load decodes the last saved cache, or returns an empty one.
func (s *Store) Load(ctx context.Context) (*domain.Cache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return domain.NewCache(), nil
	}

	var cache domain.Cache
	if err := json.Unmarshal(s.data, &cache); err != nil {
		return nil, domain.ErrCacheCorrupt
	}
	return &cache, nil
}

// Save keeps the cache's JSON encoding.
func (s *Store) Save(ctx context.Context, cache *domain.Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
