// Package dates resolves calendar dates for documents from header fields,
// body text and filenames, and renders filename date prefixes.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// prefixPattern matches the fixed-width date prefix on filenames.
var prefixPattern = regexp.MustCompile(`^(\d{8})-`)

// Resolver extracts a best-guess date for a document. It never guesses
// beyond what an explicit field or pattern matched: absence is a legal
// result, not an error.
type Resolver struct {
	cfg      domain.DatesConfig
	patterns []*regexp.Regexp
	months   map[string]int
}

// NewResolver builds a resolver from configuration. Content patterns that do
// not compile are skipped with a warning.
func NewResolver(cfg domain.DatesConfig) *Resolver {
	r := &Resolver{
		cfg:    cfg,
		months: make(map[string]int, len(cfg.MonthNames)),
	}
	for name, n := range cfg.MonthNames {
		r.months[strings.ToLower(name)] = n
	}

	for i, raw := range cfg.ContentPatterns {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			logger.Warn("skipping invalid content date pattern %d %q: %v", i, raw, err)
			r.patterns = append(r.patterns, nil)
			continue
		}
		r.patterns = append(r.patterns, re)
	}
	return r
}

// ParseString parses a date string against the configured input layouts in
// order. The first successful parse wins.
func (r *Resolver) ParseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range r.cfg.InputFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Resolve produces the date used for a document's filename prefix. Header
// fields are tried in the configured priority order, then body-text
// extraction when enabled, then any existing filename prefix.
func (r *Resolver) Resolve(fields map[string]any, body, filename string) domain.ResolvedDate {
	for _, field := range r.cfg.PrefixPriority {
		value, ok := fields[field]
		if !ok || value == nil {
			continue
		}

		// yaml.v3 resolves ISO dates into time.Time already.
		if t, ok := value.(time.Time); ok {
			return domain.ResolvedDate{
				Date:     t,
				Source:   domain.DateFromHeader,
				Field:    field,
				Original: t.Format("2006-01-02"),
			}
		}

		raw := fmt.Sprint(value)
		if t, ok := r.ParseString(raw); ok {
			return domain.ResolvedDate{
				Date:     t,
				Source:   domain.DateFromHeader,
				Field:    field,
				Original: raw,
			}
		}
	}

	if r.cfg.ExtractFromContent {
		if d := r.FromContent(body); !d.Absent() {
			return d
		}
	}

	if d := FromFilename(filename); !d.Absent() {
		return d
	}

	return domain.ResolvedDate{Source: domain.DateAbsent}
}

// FromContent scans body text against the ordered content patterns. The
// first pattern that matches anywhere wins; its day, month and year captures
// are combined into a calendar date. Month names resolve case-insensitively
// against the configured month table.
func (r *Resolver) FromContent(body string) domain.ResolvedDate {
	for i, re := range r.patterns {
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}

		groups := make(map[string]string)
		for gi, name := range re.SubexpNames() {
			if name != "" && gi < len(m) {
				groups[name] = m[gi]
			}
		}

		year, err := strconv.Atoi(groups["year"])
		if err != nil {
			continue
		}
		day, err := strconv.Atoi(groups["day"])
		if err != nil {
			continue
		}
		month, ok := r.month(groups["month"])
		if !ok {
			continue
		}

		t, ok := civilDate(year, month, day)
		if !ok {
			continue
		}

		return domain.ResolvedDate{
			Date:         t,
			Source:       domain.DateFromContent,
			PatternIndex: i,
			Original:     m[0],
		}
	}
	return domain.ResolvedDate{Source: domain.DateAbsent}
}

func (r *Resolver) month(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	n, ok := r.months[s]
	return n, ok
}

// civilDate builds a date and rejects impossible ones (Feb 30 would
// otherwise normalize to Mar 2).
func civilDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FromFilename extracts an existing YYYYMMDD- prefix from a filename.
func FromFilename(filename string) domain.ResolvedDate {
	m := prefixPattern.FindStringSubmatch(filename)
	if m == nil {
		return domain.ResolvedDate{Source: domain.DateAbsent}
	}

	raw := m[1]
	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[4:6])
	day, _ := strconv.Atoi(raw[6:8])

	t, ok := civilDate(year, month, day)
	if !ok {
		return domain.ResolvedDate{Source: domain.DateAbsent}
	}
	return domain.ResolvedDate{
		Date:     t,
		Source:   domain.DateFromFilename,
		Original: raw,
	}
}

// HasPrefix reports whether a filename already carries a date prefix.
func HasPrefix(filename string) bool {
	return prefixPattern.MatchString(filename)
}

// Prefix renders a date in the configured fixed-width output format. The
// rendering is a pure function of the date, independent of provenance.
func (r *Resolver) Prefix(t time.Time) string {
	format := r.cfg.OutputFormat
	if format == "" {
		format = "20060102"
	}
	return t.Format(format)
}

// AddPrefix prepends the date prefix to a filename, replacing any existing
// one.
func (r *Resolver) AddPrefix(filename string, t time.Time) string {
	if HasPrefix(filename) {
		filename = filename[9:]
	}
	return r.Prefix(t) + "-" + filename
}
