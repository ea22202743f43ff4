package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

// Lookup finds the first alias present in a header mapping and returns its
// raw value. Field lookup is by exact name, in alias priority order.
func Lookup(fields map[string]any, aliases []string) (string, any, bool) {
	for _, name := range aliases {
		if v, ok := fields[name]; ok && v != nil {
			return name, v, true
		}
	}
	return "", nil, false
}

// LookupString is Lookup rendered to a trimmed string. Dates decoded by the
// YAML parser come back in ISO form; lists render as their first element.
func LookupString(fields map[string]any, aliases []string) (string, string, bool) {
	name, value, ok := Lookup(fields, aliases)
	if !ok {
		return "", "", false
	}
	s := stringify(value)
	if s == "" {
		return "", "", false
	}
	return name, s, true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format("2006-01-02")
	case []any:
		if len(v) == 0 {
			return ""
		}
		return stringify(v[0])
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// SourceURL returns the document's source URL under the configured aliases.
func SourceURL(fields map[string]any, cfg domain.FrontmatterConfig) (field, url string, ok bool) {
	return LookupString(fields, cfg.SourceURL)
}

// Title returns the document's title under the configured aliases.
func Title(fields map[string]any, cfg domain.FrontmatterConfig) (string, bool) {
	_, s, ok := LookupString(fields, cfg.Title)
	return s, ok
}

// Author returns the document's author under the configured aliases.
func Author(fields map[string]any, cfg domain.FrontmatterConfig) (string, bool) {
	_, s, ok := LookupString(fields, cfg.Author)
	return s, ok
}

// Description returns the document's description under the configured aliases.
func Description(fields map[string]any, cfg domain.FrontmatterConfig) (string, bool) {
	_, s, ok := LookupString(fields, cfg.Description)
	return s, ok
}
