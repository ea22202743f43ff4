package driven

import "context"

// Vault provides access to the markdown documents of one vault directory.
// All paths are relative to the vault root.
type Vault interface {
	// Root returns the absolute vault root directory.
	Root() string

	// Discover lists the markdown documents in the vault, honoring the
	// configured exclusions. Paths come back sorted.
	Discover(ctx context.Context) ([]string, error)

	// Folders lists the vault's top-level folders, excluding special
	// folders, sorted by name.
	Folders(ctx context.Context) ([]string, error)

	// Read returns a document's full text.
	Read(ctx context.Context, rel string) (string, error)

	// Write replaces a document's full text, creating it if needed.
	Write(ctx context.Context, rel string, content string) error

	// Rename moves a document within the vault, creating target folders as
	// needed.
	Rename(ctx context.Context, oldRel, newRel string) error

	// Trash moves a document into the vault-local trash folder and returns
	// the path it was moved to.
	Trash(ctx context.Context, rel string) (string, error)

	// Exists reports whether a document is present.
	Exists(rel string) bool
}
