package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/frontmatter"
	"github.com/clipvault/clipvault-cli/internal/logger"
	"github.com/clipvault/clipvault-cli/internal/sanitize"
)

// Ensure ExtractService implements the interface.
var _ driving.Extractor = (*ExtractService)(nil)

// defaultPreviewChars caps description previews when the caller gives no
// limit.
const defaultPreviewChars = 150

// ExtractService exports the frontmatter metadata of root-level articles in
// a compact form. Articles already filed into folders are left out: the
// export exists to categorize the unfiled ones.
type ExtractService struct {
	cfg   *domain.Config
	vault driven.Vault
}

// NewExtractService creates an extractor over one vault.
func NewExtractService(cfg *domain.Config, vault driven.Vault) *ExtractService {
	return &ExtractService{cfg: cfg, vault: vault}
}

// Extract reads every root-level article and collects title, source, author,
// published date and a capped description preview. Documents that cannot be
// read or parsed land in the report's error list without stopping the batch.
func (s *ExtractService) Extract(ctx context.Context, opts driving.ExtractOptions) (*driving.ExtractReport, error) {
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultPreviewChars
	}

	files, err := s.vault.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}

	report := &driving.ExtractReport{
		Generated: time.Now().Format(time.RFC3339),
	}

	if opts.IncludeFolders {
		folders, err := s.vault.Folders(ctx)
		if err != nil {
			return nil, fmt.Errorf("list folders: %w", err)
		}
		report.Folders = folders
	}

	for _, rel := range files {
		if strings.ContainsAny(rel, `/\`) {
			continue
		}
		report.Total++

		text, err := s.vault.Read(ctx, rel)
		if err != nil {
			report.Errors = append(report.Errors, driving.ExtractError{Filename: rel, Err: err.Error()})
			continue
		}

		parsed, err := frontmatter.Parse(text)
		if err != nil {
			report.Errors = append(report.Errors, driving.ExtractError{Filename: rel, Err: err.Error()})
			continue
		}

		report.Articles = append(report.Articles, s.article(report.Total, rel, parsed, opts))
	}

	logger.Info("extracted metadata for %d of %d root articles", len(report.Articles), report.Total)
	return report, nil
}

// article collects one document's metadata.
func (s *ExtractService) article(index int, rel string, parsed frontmatter.Parsed, opts driving.ExtractOptions) driving.ArticleMetadata {
	meta := driving.ArticleMetadata{Index: index, Filename: rel}

	if title, ok := frontmatter.Title(parsed.Fields, s.cfg.Frontmatter); ok {
		meta.Title = title
	}
	if _, url, ok := frontmatter.SourceURL(parsed.Fields, s.cfg.Frontmatter); ok {
		meta.URL = url
		meta.Domain = sanitize.Domain(url)
	}
	if author, ok := frontmatter.Author(parsed.Fields, s.cfg.Frontmatter); ok {
		meta.Author = author
	}
	if _, published, ok := frontmatter.LookupString(parsed.Fields, s.cfg.Frontmatter.PublishedDate); ok {
		meta.Published = published
	}

	meta.Description = s.preview(parsed, opts)
	if opts.IncludeStats {
		meta.WordCount = len(strings.Fields(parsed.Body))
	}
	return meta
}

// preview returns the description capped at MaxChars runes, falling back to
// the start of the body when no description field is present.
func (s *ExtractService) preview(parsed frontmatter.Parsed, opts driving.ExtractOptions) string {
	if desc, ok := frontmatter.Description(parsed.Fields, s.cfg.Frontmatter); ok {
		return truncatePreview(desc, opts.MaxChars)
	}
	if opts.IncludeContent {
		return truncatePreview(strings.TrimSpace(parsed.Body), opts.MaxChars)
	}
	return ""
}

// truncatePreview cuts at a rune boundary and marks the cut with an
// ellipsis.
func truncatePreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
