package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cachefile "github.com/clipvault/clipvault-cli/internal/adapters/driven/cachestore/file"
	configfile "github.com/clipvault/clipvault-cli/internal/adapters/driven/config/file"
	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Ensure Initializer implements the interface.
var _ driving.Initializer = (*Initializer)(nil)

// Initializer scaffolds a vault: the .clipvault housekeeping folder, a
// default config and an empty cache.
type Initializer struct{}

// NewInitializer creates an initializer.
func NewInitializer() *Initializer {
	return &Initializer{}
}

// Init scaffolds a vault at path, creating it if needed. An existing config
// or cache is left alone, so Init is safe to re-run.
func (i *Initializer) Init(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clipDir := filepath.Join(path, ".clipvault")
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", clipDir, err)
	}

	configPath := filepath.Join(clipDir, "config.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := domain.DefaultConfig()
		if err := configfile.Write(configPath, cfg); err != nil {
			return err
		}
		logger.Info("wrote default config to %s", configPath)
	} else {
		logger.Info("config already present at %s", configPath)
	}

	cachePath := filepath.Join(clipDir, "cache.json")
	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		store := cachefile.NewStore(cachePath)
		if err := store.Save(ctx, domain.NewCache()); err != nil {
			return err
		}
		logger.Info("wrote empty cache to %s", cachePath)
	} else {
		logger.Info("cache already present at %s", cachePath)
	}

	return nil
}
