package web

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.PageFetcher = (*Connector)(nil)

// maxRefreshHops bounds meta-refresh chains.
const maxRefreshHops = 3

// Connector fetches remote articles and converts them to markdown.
type Connector struct {
	client    *Client
	policy    *bluemonday.Policy
	converter *converter.Converter
	feeds     *gofeed.Parser
}

// New creates a web connector from fetch configuration.
func New(cfg domain.FetchConfig) *Connector {
	return &Connector{
		client: NewClient(cfg),
		policy: bluemonday.UGCPolicy(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		feeds: gofeed.NewParser(),
	}
}

// FetchPage downloads a page, follows meta-refresh redirects, and converts
// the article region to markdown.
func (c *Connector) FetchPage(ctx context.Context, url string) (*driven.WebPage, error) {
	finalURL, doc, err := c.load(ctx, url)
	if err != nil {
		return nil, err
	}

	md := extractMetadata(doc)

	html := articleHTML(doc)
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("%s: no article content found", finalURL)
	}

	safe := c.policy.Sanitize(html)
	markdown, err := c.converter.ConvertString(safe, converter.WithDomain(finalURL))
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", finalURL, err)
	}

	return &driven.WebPage{
		URL:         finalURL,
		Title:       md.title,
		Author:      md.author,
		Published:   md.published,
		Description: md.description,
		Markdown:    strings.TrimSpace(markdown) + "\n",
	}, nil
}

// load fetches a URL and follows meta-refresh redirects up to maxRefreshHops.
func (c *Connector) load(ctx context.Context, url string) (string, *goquery.Document, error) {
	current := url
	for hop := 0; ; hop++ {
		body, finalURL, err := c.client.Get(ctx, current)
		if err != nil {
			return "", nil, err
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return "", nil, fmt.Errorf("parsing %s: %w", finalURL, err)
		}

		target := metaRefreshTarget(doc, finalURL)
		if target == "" || target == finalURL {
			return finalURL, doc, nil
		}
		if hop >= maxRefreshHops {
			return "", nil, fmt.Errorf("%s: too many meta-refresh redirects", url)
		}
		logger.Info("following meta refresh %s -> %s", finalURL, target)
		current = target
	}
}

// FeedLinks reads a feed and returns up to limit entry links in feed order.
func (c *Connector) FeedLinks(ctx context.Context, feedURL string, limit int) ([]string, error) {
	body, _, err := c.client.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := c.feeds.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	var links []string
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if limit > 0 && len(links) >= limit {
			break
		}
	}
	return links, nil
}
