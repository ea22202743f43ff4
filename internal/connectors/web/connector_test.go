package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func testConfig() domain.FetchConfig {
	cfg := domain.DefaultConfig().Fetch
	cfg.RequestsPerSecond = 1000
	cfg.RetryDelaySeconds = 0
	return cfg
}

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="How Dedup Works">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-01-17T09:00:00Z">
<meta property="og:description" content="A short tour.">
</head>
<body>
<nav><a href="/">home</a></nav>
<article>
<h1>How Dedup Works</h1>
<p>First paragraph with a <a href="/more">relative link</a>.</p>
<script>alert("stripped")</script>
</article>
<footer>copyright</footer>
</body>
</html>`

func TestFetchPage_ExtractsMetadataAndMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	page, err := New(testConfig()).FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "How Dedup Works", page.Title)
	assert.Equal(t, "Jane Doe", page.Author)
	assert.Equal(t, "2024-01-17T09:00:00Z", page.Published)
	assert.Equal(t, "A short tour.", page.Description)

	assert.Contains(t, page.Markdown, "# How Dedup Works")
	assert.Contains(t, page.Markdown, "First paragraph")
	assert.NotContains(t, page.Markdown, "alert", "scripts must not survive sanitization")
	assert.NotContains(t, page.Markdown, "copyright", "page chrome must be dropped")
	// Relative links resolve against the page URL.
	assert.Contains(t, page.Markdown, srv.URL+"/more")
}

func TestFetchPage_TitleFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Plain Title</title></head><body><p>Body text.</p></body></html>`))
	}))
	defer srv.Close()

	page, err := New(testConfig()).FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", page.Title)
}

func TestFetchPage_FollowsMetaRefresh(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/wrapped", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta http-equiv="refresh" content="0; url=/real"></head><body></body></html>`))
	})
	mux.HandleFunc("/real", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Real Article</title></head><body><p>The content.</p></body></html>`))
	})

	page, err := New(testConfig()).FetchPage(context.Background(), srv.URL+"/wrapped")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/real", page.URL)
	assert.Equal(t, "Real Article", page.Title)
}

func TestFetchPage_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<html><head><title>Recovered</title></head><body><p>Here now.</p></body></html>`))
	}))
	defer srv.Close()

	page, err := New(testConfig()).FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Recovered", page.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPage_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(testConfig()).FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFeedLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>One</title><link>https://example.com/one</link></item>
<item><title>Two</title><link>https://example.com/two</link></item>
<item><title>Three</title><link>https://example.com/three</link></item>
</channel></rss>`))
	}))
	defer srv.Close()

	links, err := New(testConfig()).FeedLinks(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/one", "https://example.com/two"}, links)
}

func TestResolveMetaRefresh(t *testing.T) {
	tests := []struct {
		name    string
		content string
		base    string
		want    string
	}{
		{"absolute", "0; url=https://example.com/real", "https://a.com/x", "https://example.com/real"},
		{"relative", "0; url=/real", "https://a.com/x", "https://a.com/real"},
		{"quoted", `5; URL='https://example.com/q'`, "https://a.com/x", "https://example.com/q"},
		{"not a redirect", "text/html; charset=utf-8", "https://a.com/x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveMetaRefresh(tt.content, tt.base))
		})
	}
}
