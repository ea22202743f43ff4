package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/dates"
	"github.com/clipvault/clipvault-cli/internal/fingerprint"
	"github.com/clipvault/clipvault-cli/internal/frontmatter"
	"github.com/clipvault/clipvault-cli/internal/logger"
	"github.com/clipvault/clipvault-cli/internal/sanitize"
)

// Ensure FetchService implements the interface.
var _ driving.Fetcher = (*FetchService)(nil)

// FetchService downloads remote articles into the vault. Downloads run in
// parallel; vault writes and cache mutations stay sequential.
type FetchService struct {
	cfg        *domain.Config
	vault      driven.Vault
	cacheStore driven.CacheStore
	pages      driven.PageFetcher

	cleaner  *sanitize.URLCleaner
	resolver *dates.Resolver
}

// NewFetchService creates a fetch service over one vault.
func NewFetchService(cfg *domain.Config, vault driven.Vault, cacheStore driven.CacheStore, pages driven.PageFetcher) *FetchService {
	return &FetchService{
		cfg:        cfg,
		vault:      vault,
		cacheStore: cacheStore,
		pages:      pages,
		cleaner:    sanitize.NewURLCleaner(cfg.URLCleaning),
		resolver:   dates.NewResolver(cfg.Dates),
	}
}

// fetchOutcome is one URL's download result before anything touched the
// vault or cache.
type fetchOutcome struct {
	index int
	url   string
	page  *driven.WebPage
	err   error
}

// Fetch downloads each URL, converts it to a markdown document with
// frontmatter, writes it to the vault and records it in the cache. URLs
// already active in the cache are skipped without a request.
func (s *FetchService) Fetch(ctx context.Context, urls []string) (*driving.FetchReport, error) {
	report := &driving.FetchReport{}

	cache, err := s.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	cache.SetCanonicalizer(s.cleaner.Clean)

	// Partition up front so known URLs never cost a request.
	var pending []string
	var pendingIdx []int
	results := make([]driving.FetchResult, len(urls))
	for i, raw := range urls {
		cleaned := s.cleaner.Clean(raw)
		if cache.HasActive(cleaned) {
			logger.Info("skipping %s: already in vault", cleaned)
			results[i] = driving.FetchResult{URL: raw, Skipped: true}
			report.Skipped++
			continue
		}
		pending = append(pending, raw)
		pendingIdx = append(pendingIdx, i)
	}

	// Parallel download phase.
	outcomes := s.download(ctx, pending)

	// Sequential write phase.
	for _, outcome := range outcomes {
		i := pendingIdx[outcome.index]
		result := driving.FetchResult{URL: outcome.url}

		if outcome.err != nil {
			result.Err = outcome.err.Error()
			report.Failed++
			results[i] = result
			continue
		}

		filename, err := s.save(ctx, cache, outcome.page)
		if err != nil {
			result.Err = err.Error()
			report.Failed++
			results[i] = result
			continue
		}

		result.Filename = filename
		report.Saved++
		results[i] = result
	}
	report.Results = results

	if report.Saved > 0 {
		if err := s.cacheStore.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
	}
	return report, nil
}

// FetchFeed reads a feed and fetches its newest entries, capped by the
// configured feed limit.
func (s *FetchService) FetchFeed(ctx context.Context, feedURL string) (*driving.FetchReport, error) {
	links, err := s.pages.FeedLinks(ctx, feedURL, s.cfg.Fetch.FeedLimit)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	logger.Info("feed %s: fetching %d entries", feedURL, len(links))
	return s.Fetch(ctx, links)
}

// download fans URLs out over up to MaxConcurrent workers.
func (s *FetchService) download(ctx context.Context, urls []string) []fetchOutcome {
	jobs := s.cfg.Fetch.MaxConcurrent
	if jobs <= 0 {
		jobs = 1
	}
	if jobs > len(urls) {
		jobs = len(urls)
	}

	jobCh := make(chan int)
	outcomes := make([]fetchOutcome, len(urls))

	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				page, err := s.pages.FetchPage(ctx, urls[i])
				outcomes[i] = fetchOutcome{index: i, url: urls[i], page: page, err: err}
			}
		}()
	}

feed:
	for i := range urls {
		select {
		case jobCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	return outcomes
}

// save composes the document, writes it under a collision-free name and
// records the observation.
func (s *FetchService) save(ctx context.Context, cache *domain.Cache, page *driven.WebPage) (string, error) {
	cleanedURL := s.cleaner.Clean(page.URL)

	// A redirect may land on a URL another download already claimed.
	if entry, ok := cache.Lookup(cleanedURL); ok && entry.Active() {
		return "", fmt.Errorf("%s already saved as %s", cleanedURL, entry.Filename)
	}

	title := page.Title
	if title == "" {
		title = sanitize.Domain(cleanedURL)
	}

	published, publishedAt := s.publishedDate(page.Published)

	header := frontmatter.BuildHeader([]frontmatter.Field{
		{Name: "id", Value: uuid.NewString()},
		{Name: "title", Value: title},
		{Name: "source", Value: cleanedURL},
		{Name: "author", Value: page.Author},
		{Name: "published", Value: published},
		{Name: "clipped", Value: time.Now().Format("2006-01-02")},
		{Name: "description", Value: page.Description},
	})
	body := page.Markdown
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	doc := header + body

	name := sanitize.SanitizeTitle(title, s.cfg.Filenames.MaxLength) + ".md"
	if !publishedAt.IsZero() {
		name = s.resolver.AddPrefix(name, publishedAt)
	}
	name = sanitize.UniqueName(name, s.vault.Exists)

	if err := s.vault.Write(ctx, name, doc); err != nil {
		return "", err
	}

	var hash string
	if s.cfg.Cache.TrackContentHash {
		hash = fingerprint.Hash(page.Markdown, s.cfg.Cache.HashAlgorithm, s.cfg.Cache.HashLength)
	}
	cache.RecordObservation(cleanedURL, name, title, "", hash)

	logger.Info("saved %s as %s", cleanedURL, name)
	return name, nil
}

// publishedDate normalizes the page's published stamp to YYYY-MM-DD. Meta
// tags usually carry RFC 3339; the configured input layouts are the
// fallback.
func (s *FetchService) publishedDate(raw string) (string, time.Time) {
	if raw == "" {
		return "", time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02"), t
	}
	if t, ok := s.resolver.ParseString(raw); ok {
		return t.Format("2006-01-02"), t
	}
	// Keep the original string; it may still mean something to a reader.
	return raw, time.Time{}
}
