package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachefile "github.com/clipvault/clipvault-cli/internal/adapters/driven/cachestore/file"
	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func TestValidate_HealthyVault(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("x\n"), 0o644))

	cfg := domain.DefaultConfig()
	cfg.Paths.Root = root
	store := cachefile.NewStore(filepath.Join(root, ".clipvault", "cache.json"))

	report, err := NewValidator(cfg, "", store).Validate(context.Background())
	require.NoError(t, err)

	assert.True(t, report.OK())
	require.Len(t, report.Checks, 4)
	assert.Equal(t, "documents", report.Checks[3].Name)
	assert.Contains(t, report.Checks[3].Detail, "1 markdown files")
}

func TestValidate_MissingRoot(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Paths.Root = filepath.Join(t.TempDir(), "nope")
	store := cachefile.NewStore(filepath.Join(t.TempDir(), "cache.json"))

	report, err := NewValidator(cfg, "", store).Validate(context.Background())
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.False(t, report.Checks[1].OK)
	// The document count check is skipped when the root is absent.
	assert.Len(t, report.Checks, 3)
}

func TestValidate_CorruptCache(t *testing.T) {
	root := t.TempDir()
	cachePath := filepath.Join(root, "cache.json")
	require.NoError(t, os.WriteFile(cachePath, []byte("{broken"), 0o644))

	cfg := domain.DefaultConfig()
	cfg.Paths.Root = root

	report, err := NewValidator(cfg, "", cachefile.NewStore(cachePath)).Validate(context.Background())
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.False(t, report.Checks[2].OK)
}
