package driving

import "context"

// Fetcher retrieves remote pages and saves them as vault documents.
type Fetcher interface {
	// Fetch downloads each URL, converts it to markdown with frontmatter,
	// writes it to the vault and records it in the cache. URLs already
	// active in the cache are skipped.
	Fetch(ctx context.Context, urls []string) (*FetchReport, error)

	// FetchFeed reads a feed and fetches its newest entries.
	FetchFeed(ctx context.Context, feedURL string) (*FetchReport, error)
}

// FetchResult is the outcome for one URL.
type FetchResult struct {
	URL      string
	Filename string
	Skipped  bool
	Err      string
}

// FetchReport summarises one fetch invocation.
type FetchReport struct {
	Results []FetchResult
	Saved   int
	Skipped int
	Failed  int
}
