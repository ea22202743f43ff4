package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsProvider = (*StatsService)(nil)

// rootFolderLabel names the pseudo-folder for documents at the vault root.
const rootFolderLabel = "(root)"

// StatsService computes per-folder article counts with configurable warning
// thresholds.
type StatsService struct {
	cfg   *domain.Config
	vault driven.Vault
}

// NewStatsService creates a stats provider over one vault.
func NewStatsService(cfg *domain.Config, vault driven.Vault) *StatsService {
	return &StatsService{cfg: cfg, vault: vault}
}

// Stats counts documents per top-level folder.
func (s *StatsService) Stats(ctx context.Context) (*driving.StatsReport, error) {
	files, err := s.vault.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}

	counts := make(map[string]int)
	for _, rel := range files {
		counts[topFolder(rel)]++
	}

	report := &driving.StatsReport{Total: len(files)}
	for folder, count := range counts {
		report.Folders = append(report.Folders, driving.FolderStat{
			Folder:  folder,
			Count:   count,
			Warning: s.warning(folder, count),
		})
	}
	sort.Slice(report.Folders, func(i, j int) bool {
		return report.Folders[i].Folder < report.Folders[j].Folder
	})
	return report, nil
}

// warning judges a folder's count against the thresholds; the root
// pseudo-folder is exempt.
func (s *StatsService) warning(folder string, count int) string {
	if folder == rootFolderLabel {
		return ""
	}
	if below := s.cfg.Folders.WarnBelow; below > 0 && count < below {
		return fmt.Sprintf("fewer than %d articles", below)
	}
	if above := s.cfg.Folders.WarnAbove; above > 0 && count > above {
		return fmt.Sprintf("more than %d articles", above)
	}
	return ""
}

func topFolder(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx]
	}
	return rootFolderLabel
}
