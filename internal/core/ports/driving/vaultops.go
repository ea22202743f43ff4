package driving

import "context"

// Mover executes a categorization plan: numbered lines assigning documents
// to folders, with TRASH as a special destination.
type Mover interface {
	Move(ctx context.Context, planPath string, dryRun bool) (*MoveReport, error)
}

// MoveReport summarises one plan execution.
type MoveReport struct {
	Moved   int
	Trashed int
	Skipped int

	// Warnings holds human-readable notes, such as category names within
	// edit distance 2 of an existing folder.
	Warnings []string

	Errors []DocumentError
}

// Trasher moves documents into the vault trash and marks their cache
// entries removed.
type Trasher interface {
	Trash(ctx context.Context, patterns []string) (*TrashReport, error)
}

// TrashReport summarises one trash invocation.
type TrashReport struct {
	Trashed []string
	Marked  int
	Errors  []DocumentError
}

// Validator checks that a vault and its configuration are usable.
type Validator interface {
	Validate(ctx context.Context) (*ValidationReport, error)
}

// ValidationCheck is one named pass/fail result.
type ValidationCheck struct {
	Name   string
	OK     bool
	Detail string
}

// ValidationReport lists every check performed.
type ValidationReport struct {
	Checks []ValidationCheck
}

// OK reports whether every check passed.
func (r *ValidationReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// StatsProvider computes per-folder article counts.
type StatsProvider interface {
	Stats(ctx context.Context) (*StatsReport, error)
}

// FolderStat is one folder's article count with threshold judgement.
type FolderStat struct {
	Folder  string `json:"folder"`
	Count   int    `json:"count"`
	Warning string `json:"warning,omitempty"`
}

// StatsReport holds folder statistics, sorted by folder name.
type StatsReport struct {
	Folders []FolderStat `json:"folders"`
	Total   int          `json:"total"`
}

// Initializer scaffolds a new vault.
type Initializer interface {
	Init(ctx context.Context, path string) error
}
