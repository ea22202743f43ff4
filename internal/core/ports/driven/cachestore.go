package driven

import (
	"context"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

// CacheStore persists the duplicate-tracking cache. The cache is loaded
// wholesale at the start of a batch and written back wholesale at the end.
type CacheStore interface {
	// Load reads the cache from storage. A store with no cache yet returns
	// an empty cache; a cache that exists but cannot be decoded is an error
	// wrapping domain.ErrCacheCorrupt.
	Load(ctx context.Context) (*domain.Cache, error)

	// Save persists the cache atomically: a partially written cache must
	// never be observable.
	Save(ctx context.Context, cache *domain.Cache) error

	// Path returns the backing location, for diagnostics.
	Path() string
}
