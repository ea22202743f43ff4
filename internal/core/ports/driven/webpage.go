package driven

import "context"

// WebPage is a fetched remote article, already converted to markdown.
type WebPage struct {
	// URL is the final URL after redirects and meta-refresh unwrapping.
	URL string

	Title       string
	Author      string
	Published   string
	Description string

	// Markdown is the sanitized article body.
	Markdown string
}

// PageFetcher retrieves remote pages and feed entry links.
type PageFetcher interface {
	// FetchPage downloads a page and converts it to markdown.
	FetchPage(ctx context.Context, url string) (*WebPage, error)

	// FeedLinks reads a feed and returns up to limit entry links, newest
	// first.
	FeedLinks(ctx context.Context, feedURL string, limit int) ([]string, error)
}
