// Package sanitize canonicalizes URLs and filenames. Both operations are
// deterministic, side-effect-free and idempotent; callers compare or key on
// the output, never on raw input.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// URLCleaner normalizes URLs: it strips blocked query parameters and the
// fragment, and unwraps link-tracking redirect wrappers. Two URLs are equal
// for dedup purposes only after both have been through Clean.
type URLCleaner struct {
	remove map[string]bool
	unwrap []*regexp.Regexp
}

// NewURLCleaner builds a cleaner from configuration. Unwrap patterns that do
// not compile are skipped with a warning rather than failing the run.
func NewURLCleaner(cfg domain.URLCleaningConfig) *URLCleaner {
	c := &URLCleaner{
		remove: make(map[string]bool, len(cfg.RemoveParams)),
	}
	for _, p := range cfg.RemoveParams {
		c.remove[p] = true
	}
	for _, raw := range cfg.UnwrapPatterns {
		re, err := regexp.Compile(raw)
		if err != nil {
			logger.Warn("skipping invalid unwrap pattern %q: %v", raw, err)
			continue
		}
		if re.NumSubexp() < 1 {
			logger.Warn("skipping unwrap pattern without capture group: %q", raw)
			continue
		}
		c.unwrap = append(c.unwrap, re)
	}
	return c
}

// Clean canonicalizes a URL. Unparseable input is returned unchanged:
// cleaning never fails.
func (c *URLCleaner) Clean(raw string) string {
	cleaned := c.strip(raw)

	// Single-pass unwrap: a wrapper's destination gets one more cleaning
	// round, never a recursive one.
	if target, ok := c.unwrapOnce(cleaned); ok {
		cleaned = c.strip(target)
	}

	return cleaned
}

// strip removes blocked query parameters and the fragment, re-encodes the
// surviving query deterministically, and trims trailing slashes off non-root
// paths.
func (c *URLCleaner) strip(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.RawQuery != "" {
		params, err := url.ParseQuery(u.RawQuery)
		if err == nil {
			for name := range params {
				// Case-sensitive exact match against the block set.
				if c.remove[name] {
					params.Del(name)
				}
			}
			u.RawQuery = params.Encode()
		}
	}
	u.Fragment = ""
	u.RawFragment = ""

	cleaned := u.String()
	if u.Path != "/" && strings.HasSuffix(cleaned, "/") {
		cleaned = strings.TrimRight(cleaned, "/")
	}
	return cleaned
}

// unwrapOnce returns the percent-decoded capture of the first matching
// unwrap pattern.
func (c *URLCleaner) unwrapOnce(raw string) (string, bool) {
	for _, re := range c.unwrap {
		m := re.FindStringSubmatch(raw)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		target := m[1]
		if decoded, err := url.QueryUnescape(target); err == nil {
			target = decoded
		}
		return target, true
	}
	return "", false
}

// Domain returns the host portion of a URL, or "" when unparseable.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
