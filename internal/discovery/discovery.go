// Package discovery finds the markdown documents of a vault, honoring the
// configured folder exclusions and ignore list.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Finder walks a vault root for markdown documents.
type Finder struct {
	cfg domain.SpecialFoldersConfig
}

// NewFinder builds a finder from the special-folders configuration.
func NewFinder(cfg domain.SpecialFoldersConfig) *Finder {
	return &Finder{cfg: cfg}
}

// Markdown returns the relative paths of all markdown documents under root,
// sorted. Folders matching an exclude pattern are skipped whole; hidden
// files, hidden folders and ignore-listed filenames are skipped.
func (f *Finder) Markdown(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && f.ExcludedFolder(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.IgnoredFile(name) || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	logger.Debug("discovered %d markdown files under %s", len(files), root)
	return files, nil
}

// ExcludedFolder reports whether a folder name matches the exclusion
// patterns. Hidden folders are always excluded.
func (f *Finder) ExcludedFolder(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range f.cfg.ExcludePatterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// IgnoredFile reports whether a filename is skipped: hidden files and exact
// matches against the ignore list.
func (f *Finder) IgnoredFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range f.cfg.IgnoreFiles {
		if name == ignored {
			return true
		}
	}
	return false
}
