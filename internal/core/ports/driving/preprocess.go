package driving

import (
	"context"
	"time"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

// Preprocessor runs the document preprocessing batch over a vault.
type Preprocessor interface {
	// Preprocess repairs, canonicalizes, dates, renames and fingerprints
	// the given documents (all discovered documents when Paths is empty)
	// and reconciles the duplicate cache.
	Preprocess(ctx context.Context, opts PreprocessOptions) (*PreprocessReport, error)
}

// PreprocessOptions selects documents and stages for one batch.
type PreprocessOptions struct {
	// Paths restricts the batch to specific vault-relative documents.
	// Empty means every discovered document.
	Paths []string

	// DryRun computes and reports everything without writing files or
	// persisting the cache.
	DryRun bool

	// Jobs is the parallel worker count; 0 picks a sensible default.
	Jobs int

	SkipRepair  bool
	SkipURLs    bool
	SkipDates   bool
	SkipRenames bool
	SkipCache   bool
}

// Rename records one filename change made during a batch.
type Rename struct {
	From string
	To   string
}

// DocumentError records a per-document failure that did not stop the batch.
type DocumentError struct {
	Path string
	Err  string
}

// PreprocessReport summarises one batch run.
type PreprocessReport struct {
	// RunID uniquely identifies this batch.
	RunID string

	Total        int
	Repaired     int
	AlreadyValid int
	Unfixable    int

	// DefectCounts tallies individual defects by kind across the batch.
	DefectCounts map[domain.DefectKind]int

	URLsCleaned int

	Renames []Rename

	// DateSources tallies resolved-date provenance (from-header:<field>,
	// from-content:<index>, from-filename, absent).
	DateSources map[string]int

	// DuplicateURLs counts documents whose canonical URL was already
	// recorded for a different file.
	DuplicateURLs int

	// CacheMarkedRemoved counts cache entries marked removed because their
	// file is gone.
	CacheMarkedRemoved int

	Errors []DocumentError

	Duration time.Duration
}
