package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/dates"
	"github.com/clipvault/clipvault-cli/internal/fingerprint"
	"github.com/clipvault/clipvault-cli/internal/frontmatter"
	"github.com/clipvault/clipvault-cli/internal/logger"
	"github.com/clipvault/clipvault-cli/internal/sanitize"
)

// Ensure DuplicateScanner implements the interface.
var _ driving.DuplicateFinder = (*DuplicateScanner)(nil)

// DuplicateScanner finds documents that collide by canonical URL, content
// fingerprint or prefix-stripped filename. The three groupings are
// independent: a pair can show up in one, two or all three.
type DuplicateScanner struct {
	cfg     *domain.Config
	vault   driven.Vault
	cleaner *sanitize.URLCleaner
}

// NewDuplicateScanner creates a scanner over one vault.
func NewDuplicateScanner(cfg *domain.Config, vault driven.Vault) *DuplicateScanner {
	return &DuplicateScanner{
		cfg:     cfg,
		vault:   vault,
		cleaner: sanitize.NewURLCleaner(cfg.URLCleaning),
	}
}

// Scan reads every document once and groups collisions.
func (s *DuplicateScanner) Scan(ctx context.Context) (*driving.DuplicateReport, error) {
	files, err := s.vault.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}

	byURL := make(map[string][]string)
	byHash := make(map[string][]string)
	byName := make(map[string][]string)

	for _, rel := range files {
		text, err := s.vault.Read(ctx, rel)
		if err != nil {
			logger.Warn("skipping %s: %v", rel, err)
			continue
		}

		parsed, perr := frontmatter.Parse(text)
		if perr != nil {
			logger.Debug("unparseable header in %s, matching by hash and name only", rel)
		}

		if _, raw, ok := frontmatter.SourceURL(parsed.Fields, s.cfg.Frontmatter); ok {
			url := s.cleaner.Clean(raw)
			byURL[url] = append(byURL[url], rel)
		}

		if s.cfg.Cache.TrackContentHash && parsed.Body != "" {
			hash := fingerprint.Hash(parsed.Body, s.cfg.Cache.HashAlgorithm, s.cfg.Cache.HashLength)
			byHash[hash] = append(byHash[hash], rel)
		}

		name := filepath.Base(rel)
		if dates.HasPrefix(name) {
			name = name[9:]
		}
		byName[name] = append(byName[name], rel)
	}

	report := &driving.DuplicateReport{
		ByURL:        groups(byURL),
		ByHash:       groups(byHash),
		ByFilename:   groups(byName),
		ScannedFiles: len(files),
	}
	logger.Info("scanned %d documents: %d url groups, %d hash groups, %d filename groups",
		len(files), len(report.ByURL), len(report.ByHash), len(report.ByFilename))
	return report, nil
}

// groups keeps only keys with more than one file, sorted by key with sorted
// members, so output is stable across runs.
func groups(m map[string][]string) []driving.DuplicateGroup {
	var out []driving.DuplicateGroup
	for key, files := range m {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		out = append(out, driving.DuplicateGroup{Key: key, Files: files})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
