package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9.\-]`)
	dashRuns       = regexp.MustCompile(`-+`)
	nonWordChars   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// FilenameSanitizer normalizes filenames for safe, portable filesystem use.
// It is a pure function of its input: collision handling against what already
// exists on disk belongs to the caller.
type FilenameSanitizer struct {
	cfg domain.FilenamesConfig
}

// NewFilenameSanitizer builds a sanitizer from configuration.
func NewFilenameSanitizer(cfg domain.FilenamesConfig) *FilenameSanitizer {
	return &FilenameSanitizer{cfg: cfg}
}

// Sanitize normalizes a filename: unicode normalization, accent stripping,
// the configured replacement table in order, an ASCII-safe character filter,
// dash collapsing and a rune-measured length cap that keeps the extension
// outside the budget.
func (s *FilenameSanitizer) Sanitize(filename string) string {
	result := normalizeUnicode(filename, s.cfg.UnicodeNormalize)
	result = stripMarks(result)

	for _, r := range s.cfg.Replacements {
		result = strings.ReplaceAll(result, r.From, r.To)
	}

	result = unsafeChars.ReplaceAllString(result, "-")

	if s.cfg.CollapseDashes {
		result = dashRuns.ReplaceAllString(result, "-")
	}

	result = trimDashes(result)

	if s.cfg.Lowercase {
		result = strings.ToLower(result)
	}

	if s.cfg.MaxLength > 0 {
		result = truncate(result, s.cfg.MaxLength)
	}

	return result
}

// SanitizeTitle reduces an article title to a filename stem: word characters
// and dashes only, spaces dashed, truncated at a word boundary.
func SanitizeTitle(title string, maxLength int) string {
	cleaned := nonWordChars.ReplaceAllString(title, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, "-")
	cleaned = dashRuns.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-")

	if maxLength > 0 && len([]rune(cleaned)) > maxLength {
		runes := []rune(cleaned)
		cut := string(runes[:maxLength])
		if i := strings.LastIndex(cut, "-"); i > 0 {
			cut = cut[:i]
		}
		cleaned = cut
	}

	if cleaned == "" {
		return "article"
	}
	return cleaned
}

func normalizeUnicode(s, form string) string {
	switch form {
	case "NFC":
		return norm.NFC.String(s)
	case "NFD":
		return norm.NFD.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	default:
		return s
	}
}

// stripMarks drops combining marks so decomposed accented letters reduce to
// their base letter.
func stripMarks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trimDashes removes leading and trailing dashes, handling the extension
// separately so "name-.md" becomes "name.md".
func trimDashes(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		name, ext := s[:i], s[i+1:]
		return strings.Trim(name, "-") + "." + ext
	}
	return strings.Trim(s, "-")
}

// truncate caps the filename at maxLength characters, preserving the
// extension outside the budget.
func truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	if i := strings.LastIndex(s, "."); i >= 0 {
		name, ext := []rune(s[:i]), s[i+1:]
		available := maxLength - len([]rune(ext)) - 1
		if available > 0 {
			if len(name) > available {
				name = name[:available]
			}
			return string(name) + "." + ext
		}
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength])
}

// UniqueName appends -2, -3, … to the filename stem until exists reports
// false. The caller supplies the existence check, since only it knows what is
// already on disk (or already claimed within the current batch).
func UniqueName(filename string, exists func(string) bool) string {
	if !exists(filename) {
		return filename
	}

	stem, ext := filename, ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		stem, ext = filename[:i], filename[i:]
	}

	for n := 2; ; n++ {
		candidate := stem + "-" + strconv.Itoa(n) + ext
		if !exists(candidate) {
			return candidate
		}
	}
}
