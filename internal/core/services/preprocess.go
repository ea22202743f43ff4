package services

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
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

// Ensure Preprocessor implements the interface.
var _ driving.Preprocessor = (*Preprocessor)(nil)

// Preprocessor runs the preprocessing batch: a parallel phase of pure
// per-document work, then a sequential phase that writes files, renames and
// mutates the cache under single-writer discipline.
type Preprocessor struct {
	cfg        *domain.Config
	vault      driven.Vault
	cacheStore driven.CacheStore

	engine    *frontmatter.Engine
	resolver  *dates.Resolver
	cleaner   *sanitize.URLCleaner
	sanitizer *sanitize.FilenameSanitizer
}

// NewPreprocessor creates a preprocessor over one vault.
func NewPreprocessor(cfg *domain.Config, vault driven.Vault, cacheStore driven.CacheStore) *Preprocessor {
	return &Preprocessor{
		cfg:        cfg,
		vault:      vault,
		cacheStore: cacheStore,
		engine:     frontmatter.NewEngine(cfg.Frontmatter),
		resolver:   dates.NewResolver(cfg.Dates),
		cleaner:    sanitize.NewURLCleaner(cfg.URLCleaning),
		sanitizer:  sanitize.NewFilenameSanitizer(cfg.Filenames),
	}
}

// docOutcome is the pure, per-document result computed by a worker. Nothing
// in it has touched the filesystem or the cache yet.
type docOutcome struct {
	path    string
	readErr error

	text    string
	changed bool
	report  domain.DefectReport

	url        string
	urlCleaned bool
	title      string
	hash       string
	date       domain.ResolvedDate

	// proposedName is the sanitized (and possibly date-prefixed) filename,
	// equal to the current one when no rename is needed.
	proposedName string
}

// Preprocess runs one batch.
func (p *Preprocessor) Preprocess(ctx context.Context, opts driving.PreprocessOptions) (*driving.PreprocessReport, error) {
	start := time.Now()

	report := &driving.PreprocessReport{
		RunID:        uuid.NewString(),
		DefectCounts: make(map[domain.DefectKind]int),
		DateSources:  make(map[string]int),
	}

	// 1. Select documents.
	paths := opts.Paths
	fullScan := len(paths) == 0
	if fullScan {
		discovered, err := p.vault.Discover(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover documents: %w", err)
		}
		paths = discovered
	}
	report.Total = len(paths)
	logger.Info("preprocessing %d documents (run %s)", len(paths), report.RunID)

	// 2. Load the cache up front; a corrupt cache is fatal for the batch.
	cache, err := p.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	cache.SetCanonicalizer(p.cleaner.Clean)

	// 3. Parallel phase: pure per-document work.
	outcomes, err := p.runWorkers(ctx, paths, opts)
	if err != nil {
		return nil, err
	}

	// 4. Sequential phase: writes, renames, cache mutations.
	existing := make(map[string]bool, len(outcomes))
	for _, outcome := range outcomes {
		finalBase, err := p.apply(ctx, cache, outcome, opts, report)
		if err != nil {
			report.Errors = append(report.Errors, driving.DocumentError{
				Path: outcome.path,
				Err:  err.Error(),
			})
			continue
		}
		if finalBase != "" {
			existing[finalBase] = true
		}
	}

	// 5. Reconcile cache entries whose file is gone. Only a full scan can
	// tell absence from not-selected.
	if fullScan && !opts.SkipCache {
		report.CacheMarkedRemoved = cache.Clean(existing)
	}

	// 6. Persist the cache.
	if !opts.DryRun && !opts.SkipCache {
		if err := p.cacheStore.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
	}

	report.Duration = time.Since(start)
	logger.Info("batch %s done: %d repaired, %d valid, %d unfixable, %d errors",
		report.RunID, report.Repaired, report.AlreadyValid, report.Unfixable, len(report.Errors))
	return report, nil
}

// runWorkers fans the paths out over a worker pool and collects outcomes in
// path order.
func (p *Preprocessor) runWorkers(ctx context.Context, paths []string, opts driving.PreprocessOptions) ([]docOutcome, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(paths) && len(paths) > 0 {
		jobs = len(paths)
	}

	pathCh := make(chan string)
	resultCh := make(chan docOutcome)

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range pathCh {
				resultCh <- p.processOne(ctx, rel, opts)
			}
		}()
	}

	go func() {
		defer close(pathCh)
		for _, rel := range paths {
			select {
			case pathCh <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	outcomes := make([]docOutcome, 0, len(paths))
	for outcome := range resultCh {
		outcomes = append(outcomes, outcome)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].path < outcomes[j].path })
	return outcomes, nil
}

// processOne computes everything about a document that does not require the
// cache or filesystem mutation.
func (p *Preprocessor) processOne(ctx context.Context, rel string, opts driving.PreprocessOptions) docOutcome {
	outcome := docOutcome{path: rel}

	text, err := p.vault.Read(ctx, rel)
	if err != nil {
		outcome.readErr = err
		return outcome
	}
	outcome.text = text

	// Header repair.
	if !opts.SkipRepair {
		fixed, defects := p.engine.RepairDocument(text)
		outcome.report = defects
		if !defects.Unfixable() && fixed != text {
			outcome.text = fixed
			outcome.changed = true
		}
	}

	parsed, perr := frontmatter.Parse(outcome.text)
	if perr != nil {
		logger.Debug("header of %s stays unparsed: %v", rel, perr)
	}

	base := filepath.Base(rel)

	// Canonical source URL, rewritten in the header when cleaning changed it.
	if !opts.SkipURLs {
		if field, raw, ok := frontmatter.SourceURL(parsed.Fields, p.cfg.Frontmatter); ok {
			cleaned := p.cleaner.Clean(raw)
			outcome.url = cleaned
			if cleaned != raw {
				if header, replaced := frontmatter.ReplaceScalar(parsed.RawHeader, field, cleaned); replaced {
					outcome.text = frontmatter.Compose(header, parsed.Body)
					outcome.changed = true
				}
				outcome.urlCleaned = true
			}
		}
	}

	if title, ok := frontmatter.Title(parsed.Fields, p.cfg.Frontmatter); ok {
		outcome.title = title
	} else {
		outcome.title = stemOf(base)
	}

	if p.cfg.Cache.TrackContentHash {
		outcome.hash = fingerprint.Hash(parsed.Body, p.cfg.Cache.HashAlgorithm, p.cfg.Cache.HashLength)
	}

	if !opts.SkipDates {
		outcome.date = p.resolver.Resolve(parsed.Fields, parsed.Body, base)
	} else {
		outcome.date = domain.ResolvedDate{Source: domain.DateAbsent}
	}

	// Proposed filename: sanitized, with a date prefix when a date resolved.
	outcome.proposedName = base
	if !opts.SkipRenames {
		name := p.sanitizer.Sanitize(base)
		if !opts.SkipDates && !outcome.date.Absent() {
			name = p.resolver.AddPrefix(name, outcome.date.Date)
		}
		outcome.proposedName = name
	}

	return outcome
}

// apply performs the sequential, mutating half for one document and returns
// the final base filename (empty when the document was skipped on error).
func (p *Preprocessor) apply(
	ctx context.Context,
	cache *domain.Cache,
	outcome docOutcome,
	opts driving.PreprocessOptions,
	report *driving.PreprocessReport,
) (string, error) {
	if outcome.readErr != nil {
		return "", outcome.readErr
	}

	// Defect bookkeeping.
	switch {
	case outcome.report.Unfixable():
		report.Unfixable++
	case len(outcome.report) > 0:
		report.Repaired++
	default:
		report.AlreadyValid++
	}
	for _, defect := range outcome.report {
		report.DefectCounts[defect.Kind]++
	}

	if !opts.SkipDates {
		report.DateSources[outcome.date.Provenance()]++
	}
	if outcome.urlCleaned {
		report.URLsCleaned++
	}

	if outcome.changed && !opts.DryRun {
		if err := p.vault.Write(ctx, outcome.path, outcome.text); err != nil {
			return "", err
		}
	}

	// Rename, with collision suffixes resolved against the live folder.
	rel := outcome.path
	base := filepath.Base(rel)
	folder := folderOf(rel)

	if outcome.proposedName != base {
		target := sanitize.UniqueName(outcome.proposedName, func(candidate string) bool {
			return p.vault.Exists(filepath.Join(folder, candidate))
		})
		newRel := filepath.Join(folder, target)
		if !opts.DryRun {
			if err := p.vault.Rename(ctx, rel, newRel); err != nil {
				return "", err
			}
		}
		report.Renames = append(report.Renames, driving.Rename{From: rel, To: newRel})
		rel = newRel
		base = target
	}

	// Cache reconciliation.
	if !opts.SkipCache && p.cfg.Cache.TrackURLs && outcome.url != "" {
		if entry, ok := cache.Lookup(outcome.url); ok && entry.Active() && entry.Filename != base {
			report.DuplicateURLs++
			logger.Warn("duplicate URL %s: %s already recorded as %s", outcome.url, base, entry.Filename)
		}
		cache.RecordObservation(outcome.url, base, outcome.title, folder, outcome.hash)
	}

	return base, nil
}

func folderOf(rel string) string {
	folder := filepath.Dir(rel)
	if folder == "." {
		return ""
	}
	return folder
}

// stemOf strips the extension and any date prefix from a filename, for use
// as a fallback title.
func stemOf(base string) string {
	if dates.HasPrefix(base) {
		base = base[9:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
