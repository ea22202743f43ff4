package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// metaRefreshPattern extracts the target of a meta-refresh redirect content
// attribute, e.g. "0; url=https://example.com/real".
var metaRefreshPattern = regexp.MustCompile(`(?i)^\s*\d+\s*;\s*url\s*=\s*['"]?([^'"]+)`)

// Client is a rate-limited HTTP client with retries.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     domain.FetchConfig
}

// NewClient builds a client from fetch configuration.
func NewClient(cfg domain.FetchConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
	}
}

// Get downloads a URL and returns its body and final URL after redirects.
// Transient failures (network errors, 5xx, 429) are retried with a delay.
func (c *Client) Get(ctx context.Context, rawURL string) (body []byte, finalURL string, err error) {
	attempts := c.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(c.cfg.RetryDelaySeconds) * time.Second

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}

		body, finalURL, err = c.once(ctx, rawURL)
		if err == nil {
			return body, finalURL, nil
		}
		if !retryable(err) || attempt == attempts {
			return nil, "", err
		}

		logger.Warn("fetch %s attempt %d/%d failed: %v", rawURL, attempt, attempts, err)
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, "", err
}

// statusError marks HTTP status failures so retryable can tell transient
// server errors from permanent client errors.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.url, e.code)
}

func retryable(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	// Network-level failures are worth another try.
	return true
}

func (c *Client) once(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &statusError{code: resp.StatusCode, url: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, resp.Request.URL.String(), nil
}

// resolveMetaRefresh returns the absolute target of a meta-refresh content
// attribute, or "" when content is not a refresh redirect.
func resolveMetaRefresh(content, base string) string {
	m := metaRefreshPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	target := strings.TrimSpace(m[1])

	baseURL, err := url.Parse(base)
	if err != nil {
		return target
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(targetURL).String()
}
