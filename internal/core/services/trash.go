package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Ensure Trasher implements the interface.
var _ driving.Trasher = (*Trasher)(nil)

// Trasher moves documents into the vault trash and marks their cache
// entries removed.
type Trasher struct {
	vault      driven.Vault
	cacheStore driven.CacheStore
}

// NewTrasher creates a trasher over one vault.
func NewTrasher(vault driven.Vault, cacheStore driven.CacheStore) *Trasher {
	return &Trasher{vault: vault, cacheStore: cacheStore}
}

// Trash expands each pattern against the vault root (a literal path matches
// itself), moves matches into the trash folder and marks matching cache
// entries removed.
func (t *Trasher) Trash(ctx context.Context, patterns []string) (*driving.TrashReport, error) {
	cache, err := t.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	report := &driving.TrashReport{}
	for _, rel := range t.expand(patterns, report) {
		trashed, err := t.vault.Trash(ctx, rel)
		if err != nil {
			report.Errors = append(report.Errors, driving.DocumentError{Path: rel, Err: err.Error()})
			continue
		}
		report.Trashed = append(report.Trashed, trashed)

		if url, _, ok := cache.FindByFilename(filepath.Base(rel)); ok {
			cache.MarkRemoved(url)
			report.Marked++
		}
	}

	if len(report.Trashed) > 0 {
		if err := t.cacheStore.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
	}

	logger.Info("trashed %d documents, marked %d cache entries", len(report.Trashed), report.Marked)
	return report, nil
}

// expand resolves glob patterns to vault-relative paths. Patterns that match
// nothing are recorded as per-document errors.
func (t *Trasher) expand(patterns []string, report *driving.TrashReport) []string {
	var rels []string
	for _, pattern := range patterns {
		if t.vault.Exists(pattern) {
			rels = append(rels, pattern)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(t.vault.Root(), pattern))
		if err != nil || len(matches) == 0 {
			report.Errors = append(report.Errors, driving.DocumentError{
				Path: pattern,
				Err:  "no matching documents",
			})
			continue
		}
		for _, match := range matches {
			if rel, err := filepath.Rel(t.vault.Root(), match); err == nil {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}
