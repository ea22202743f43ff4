package driving

import "context"

// DuplicateFinder scans the vault for documents that collide by canonical
// URL, content fingerprint or prefix-stripped filename.
type DuplicateFinder interface {
	Scan(ctx context.Context) (*DuplicateReport, error)
}

// DuplicateGroup is one set of colliding documents.
type DuplicateGroup struct {
	// Key is the shared value: the canonical URL, the fingerprint or the
	// stripped filename.
	Key string `json:"key"`

	// Files are the vault-relative paths sharing the key.
	Files []string `json:"files"`
}

// DuplicateReport holds duplicate groups by detection method. Groups with a
// single member are omitted.
type DuplicateReport struct {
	ByURL      []DuplicateGroup `json:"by_url"`
	ByHash     []DuplicateGroup `json:"by_hash"`
	ByFilename []DuplicateGroup `json:"by_filename"`

	// ScannedFiles is the number of documents examined.
	ScannedFiles int `json:"scanned_files"`
}

// Empty reports whether no duplicates were found by any method.
func (r *DuplicateReport) Empty() bool {
	return len(r.ByURL) == 0 && len(r.ByHash) == 0 && len(r.ByFilename) == 0
}
