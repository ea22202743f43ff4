package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Ensure Mover implements the interface.
var _ driving.Mover = (*Mover)(nil)

// trashCategory is the plan destination that sends a file to the trash
// instead of a folder.
const trashCategory = "TRASH"

// planLinePattern matches one plan entry: "N. Category - file.md". The
// category never contains " - "; the filename may.
var planLinePattern = regexp.MustCompile(`^\s*\d+\.\s+(.+?) - (.+)$`)

// Mover executes a categorization plan against the vault.
type Mover struct {
	vault      driven.Vault
	cacheStore driven.CacheStore
}

// NewMover creates a mover over one vault.
func NewMover(vault driven.Vault, cacheStore driven.CacheStore) *Mover {
	return &Mover{vault: vault, cacheStore: cacheStore}
}

// planEntry is one parsed plan line.
type planEntry struct {
	category string
	filename string
}

// Move parses the plan file and executes it: moves into category folders,
// TRASH lines into the vault trash, cache locations updated. Category names
// within edit distance 2 of an existing folder produce a warning but still
// execute as written.
func (m *Mover) Move(ctx context.Context, planPath string, dryRun bool) (*driving.MoveReport, error) {
	// 1. Parse the plan.
	entries, err := parsePlan(planPath)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no plan entries in %s", domain.ErrInvalidInput, planPath)
	}

	// 2. Index the vault: file locations and existing folders.
	files, err := m.vault.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	byBase := make(map[string]string, len(files))
	folders := make(map[string]bool)
	for _, rel := range files {
		byBase[filepath.Base(rel)] = rel
		if folder := folderOf(rel); folder != "" {
			folders[folder] = true
		}
	}

	cache, err := m.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	report := &driving.MoveReport{}

	// 3. Warn about categories that look like typos of existing folders.
	report.Warnings = categoryWarnings(entries, folders)

	// 4. Execute entries in order.
	for _, entry := range entries {
		rel, ok := byBase[entry.filename]
		if !ok {
			report.Skipped++
			report.Errors = append(report.Errors, driving.DocumentError{
				Path: entry.filename,
				Err:  "not found in vault",
			})
			continue
		}

		if strings.EqualFold(entry.category, trashCategory) {
			if !dryRun {
				if _, err := m.vault.Trash(ctx, rel); err != nil {
					report.Errors = append(report.Errors, driving.DocumentError{Path: rel, Err: err.Error()})
					continue
				}
				if url, _, ok := cache.FindByFilename(entry.filename); ok {
					cache.MarkRemoved(url)
				}
			}
			report.Trashed++
			continue
		}

		newRel := filepath.Join(entry.category, entry.filename)
		if newRel == rel {
			report.Skipped++
			continue
		}
		if !dryRun {
			if err := m.vault.Rename(ctx, rel, newRel); err != nil {
				report.Errors = append(report.Errors, driving.DocumentError{Path: rel, Err: err.Error()})
				continue
			}
			if url, _, ok := cache.FindByFilename(entry.filename); ok {
				cache.UpdateLocation(url, entry.filename, entry.category)
			}
		}
		report.Moved++
		folders[entry.category] = true
	}

	// 5. Persist cache changes.
	if !dryRun {
		if err := m.cacheStore.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
	}

	logger.Info("plan executed: %d moved, %d trashed, %d skipped", report.Moved, report.Trashed, report.Skipped)
	return report, nil
}

// parsePlan reads plan entries, ignoring blank lines and lines that do not
// match the entry shape.
func parsePlan(path string) ([]planEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading plan %s", domain.ErrInvalidInput, path)
	}
	defer f.Close()

	var entries []planEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := planLinePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		entries = append(entries, planEntry{
			category: strings.TrimSpace(m[1]),
			filename: strings.TrimSpace(m[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	return entries, nil
}

// categoryWarnings flags plan categories that are close misspellings of
// folders that already exist.
func categoryWarnings(entries []planEntry, folders map[string]bool) []string {
	seen := make(map[string]bool)
	var warnings []string

	var existing []string
	for folder := range folders {
		existing = append(existing, folder)
	}
	sort.Strings(existing)

	for _, entry := range entries {
		category := entry.category
		if seen[category] || strings.EqualFold(category, trashCategory) || folders[category] {
			continue
		}
		seen[category] = true

		for _, folder := range existing {
			d := levenshtein(strings.ToLower(category), strings.ToLower(folder))
			if d > 0 && d <= 2 {
				warnings = append(warnings,
					fmt.Sprintf("category %q is close to existing folder %q", category, folder))
				break
			}
		}
	}
	return warnings
}

// levenshtein computes edit distance over runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
