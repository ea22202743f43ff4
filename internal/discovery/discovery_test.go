package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func writeFile(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))
}

func defaultFinder() *Finder {
	return NewFinder(domain.DefaultConfig().SpecialFolders)
}

func TestMarkdown_FindsNestedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md")
	writeFile(t, root, "Tech/b.md")
	writeFile(t, root, "Tech/Go/c.md")

	files, err := defaultFinder().Markdown(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Tech/Go/c.md",
		"Tech/b.md",
		"a.md",
	}, files)
}

func TestMarkdown_SkipsNonMarkdown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md")
	writeFile(t, root, "image.png")
	writeFile(t, root, "notes.txt")

	files, err := defaultFinder().Markdown(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, files)
}

func TestMarkdown_SkipsExcludedFolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.md")
	writeFile(t, root, "0-inbox/skip.md")
	writeFile(t, root, "_drafts/skip.md")
	writeFile(t, root, ".clipvault/skip.md")

	files, err := defaultFinder().Markdown(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, files)
}

func TestMarkdown_SkipsHiddenAndIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.md")
	writeFile(t, root, ".hidden.md")
	writeFile(t, root, "README.md")

	files, err := defaultFinder().Markdown(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, files)
}

func TestMarkdown_MissingRoot(t *testing.T) {
	_, err := defaultFinder().Markdown(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestExcludedFolder(t *testing.T) {
	f := defaultFinder()

	assert.True(t, f.ExcludedFolder("0-inbox"))
	assert.True(t, f.ExcludedFolder("_attachments"))
	assert.True(t, f.ExcludedFolder(".git"))
	assert.False(t, f.ExcludedFolder("Tech"))
}

func TestIgnoredFile(t *testing.T) {
	f := defaultFinder()

	assert.True(t, f.IgnoredFile("README.md"))
	assert.True(t, f.IgnoredFile(".DS_Store"))
	assert.False(t, f.IgnoredFile("article.md"))
}
