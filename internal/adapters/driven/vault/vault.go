// Package vault is the filesystem implementation of the vault port: one
// directory tree of markdown documents plus the .clipvault housekeeping
// folder.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/discovery"
	"github.com/clipvault/clipvault-cli/internal/sanitize"
)

// TrashDir is the vault-local trash location, relative to the root.
const TrashDir = ".clipvault/trash"

var _ driven.Vault = (*Vault)(nil)

// Vault reads and writes documents under a root directory.
type Vault struct {
	root   string
	finder *discovery.Finder
}

// New opens a vault at root. The root must exist and be a directory.
func New(root string, cfg domain.SpecialFoldersConfig) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrVaultNotFound, root)
	}

	return &Vault{
		root:   abs,
		finder: discovery.NewFinder(cfg),
	}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// Discover lists the vault's markdown documents, sorted by relative path.
func (v *Vault) Discover(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.finder.Markdown(v.root)
}

// Folders lists the vault's top-level folders, excluding special folders.
// os.ReadDir returns entries sorted already.
func (v *Vault) Folders(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(v.root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", v.root, err)
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() && !v.finder.ExcludedFolder(entry.Name()) {
			folders = append(folders, entry.Name())
		}
	}
	return folders, nil
}

// Read returns a document's full text.
func (v *Vault) Read(ctx context.Context, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(v.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, rel)
		}
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	return string(data), nil
}

// Write replaces a document's text, creating parent folders as needed.
func (v *Vault) Write(ctx context.Context, rel string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(v.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// Rename moves a document within the vault.
func (v *Vault) Rename(ctx context.Context, oldRel, newRel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(v.root, newRel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", newRel, err)
	}
	if err := os.Rename(filepath.Join(v.root, oldRel), target); err != nil {
		return fmt.Errorf("renaming %s: %w", oldRel, err)
	}
	return nil
}

// Trash moves a document into the vault trash, appending a numeric suffix on
// filename collisions. Returns the trash-relative path of the document.
func (v *Vault) Trash(ctx context.Context, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !v.Exists(rel) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, rel)
	}

	trashRoot := filepath.Join(v.root, filepath.FromSlash(TrashDir))
	if err := os.MkdirAll(trashRoot, 0o755); err != nil {
		return "", fmt.Errorf("creating trash folder: %w", err)
	}

	name := sanitize.UniqueName(filepath.Base(rel), func(candidate string) bool {
		_, err := os.Stat(filepath.Join(trashRoot, candidate))
		return err == nil
	})

	if err := os.Rename(filepath.Join(v.root, rel), filepath.Join(trashRoot, name)); err != nil {
		return "", fmt.Errorf("trashing %s: %w", rel, err)
	}
	return filepath.Join(filepath.FromSlash(TrashDir), name), nil
}

// Exists reports whether a document is present in the vault.
func (v *Vault) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(v.root, rel))
	return err == nil
}
