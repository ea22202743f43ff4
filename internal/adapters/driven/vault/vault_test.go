package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(t.TempDir(), domain.DefaultConfig().SpecialFolders)
	require.NoError(t, err)
	return v
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), domain.DefaultConfig().SpecialFolders)
	assert.ErrorIs(t, err, domain.ErrVaultNotFound)
}

func TestReadWrite(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "Tech/a.md", "hello\n"))

	got, err := v.Read(ctx, "Tech/a.md")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", got)
	assert.True(t, v.Exists("Tech/a.md"))
}

func TestRead_Missing(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Read(context.Background(), "nope.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiscover(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "a.md", "x\n"))
	require.NoError(t, v.Write(ctx, "Tech/b.md", "x\n"))
	require.NoError(t, v.Write(ctx, ".clipvault/cache.json", "{}\n"))

	files, err := v.Discover(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tech/b.md", "a.md"}, files)
}

func TestFolders_SkipsSpecialFolders(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "Tech/b.md", "x\n"))
	require.NoError(t, v.Write(ctx, "Ideas/c.md", "x\n"))
	require.NoError(t, v.Write(ctx, ".clipvault/cache.json", "{}\n"))
	require.NoError(t, os.Mkdir(filepath.Join(v.Root(), "Empty"), 0o755))

	folders, err := v.Folders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Empty", "Ideas", "Tech"}, folders)
}

func TestRename_CreatesTargetFolder(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "a.md", "x\n"))
	require.NoError(t, v.Rename(ctx, "a.md", "Tech/Go/a.md"))

	assert.False(t, v.Exists("a.md"))
	assert.True(t, v.Exists("Tech/Go/a.md"))
}

func TestTrash(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "a.md", "x\n"))

	trashed, err := v.Trash(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".clipvault", "trash", "a.md"), trashed)
	assert.False(t, v.Exists("a.md"))

	_, err = os.Stat(filepath.Join(v.Root(), trashed))
	assert.NoError(t, err)
}

func TestTrash_CollisionGetsSuffix(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "a.md", "first\n"))
	_, err := v.Trash(ctx, "a.md")
	require.NoError(t, err)

	require.NoError(t, v.Write(ctx, "Tech/a.md", "second\n"))
	trashed, err := v.Trash(ctx, "Tech/a.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".clipvault", "trash", "a-2.md"), trashed)
}

func TestTrash_Missing(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Trash(context.Background(), "nope.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextCancellation(t *testing.T) {
	v := newTestVault(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
