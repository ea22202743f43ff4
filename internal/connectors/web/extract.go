package web

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// metadata is what the page declares about itself in meta tags.
type metadata struct {
	title       string
	author      string
	published   string
	description string
}

// metaSources lists, in priority order, where each field is read from.
// Open Graph and schema.org tags come before generic meta names.
var metaSources = map[string][]string{
	"title":       {`meta[property="og:title"]`, `meta[name="twitter:title"]`},
	"author":      {`meta[name="author"]`, `meta[property="article:author"]`},
	"published":   {`meta[property="article:published_time"]`, `meta[name="date"]`, `meta[itemprop="datePublished"]`},
	"description": {`meta[property="og:description"]`, `meta[name="description"]`},
}

func extractMetadata(doc *goquery.Document) metadata {
	md := metadata{
		title:       metaContent(doc, metaSources["title"]),
		author:      metaContent(doc, metaSources["author"]),
		published:   metaContent(doc, metaSources["published"]),
		description: metaContent(doc, metaSources["description"]),
	}
	if md.title == "" {
		md.title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if md.title == "" {
		md.title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return md
}

func metaContent(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if v := strings.TrimSpace(content); v != "" {
				return v
			}
		}
	}
	return ""
}

// articleHTML returns the HTML of the most article-like region of the page:
// <article>, then <main>, then <body>. Navigation chrome is dropped first.
func articleHTML(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	for _, sel := range []string{"article", "main", "body"} {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		html, err := node.Html()
		if err != nil || strings.TrimSpace(html) == "" {
			continue
		}
		return html
	}
	return ""
}

// metaRefreshTarget returns the absolute target of a meta-refresh tag on the
// page, or "" when the page does not redirect that way.
func metaRefreshTarget(doc *goquery.Document, base string) string {
	content, ok := doc.Find(`meta[http-equiv]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		return strings.EqualFold(equiv, "refresh")
	}).First().Attr("content")
	if !ok {
		return ""
	}
	return resolveMetaRefresh(content, base)
}
