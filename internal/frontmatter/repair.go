package frontmatter

import (
	"regexp"
	"strings"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

var (
	// topKeyPattern matches a top-level mapping key at the start of a line.
	topKeyPattern = regexp.MustCompile(`^([^\s:#][^:]*?)\s*:(?:\s|$)`)

	// linkPattern matches [[target]] and [[target|display]] markup.
	linkPattern = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

	// multilineLinkPattern matches link markup whose target wrapped onto the
	// next line.
	multilineLinkPattern = regexp.MustCompile(`\[\[([^\[\]]*?)\n([^\[\]]*?)\]\]`)

	// quotedKeyPattern matches a key line whose value opens with a quote.
	quotedKeyPattern = regexp.MustCompile(`^(\s*[^\s:#][^:]*?:\s+)(["'])(.*)$`)

	// quotedItemPattern matches a sequence item whose value opens with a quote.
	quotedItemPattern = regexp.MustCompile(`^(\s*-\s+)(["'])(.*)$`)

	// keyValuePattern splits a key line into key part and plain value.
	keyValuePattern = regexp.MustCompile(`^(\s*(?:- )?[^\s:#"'|>][^:]*?):\s(.*)$`)
)

// Engine applies the ordered repair pipeline to raw header text. Every rule
// is deterministic, and the pipeline as a whole is idempotent: repairing
// already-repaired text produces no further changes.
type Engine struct {
	collapseThreshold int
}

// NewEngine builds a repair engine from frontmatter configuration.
func NewEngine(cfg domain.FrontmatterConfig) *Engine {
	threshold := cfg.CollapseThreshold
	if threshold <= 0 {
		threshold = 120
	}
	return &Engine{collapseThreshold: threshold}
}

// RepairDocument runs the repair pipeline on a full document. Documents
// without a header pass through untouched. When the header cannot be made
// parseable the original text comes back unchanged, with the failure
// recorded in the report.
func (e *Engine) RepairDocument(text string) (string, domain.DefectReport) {
	header, body, ok := Split(text)
	if !ok {
		return text, nil
	}

	fixed, report := e.Repair(header)
	if len(report) == 0 || report.Unfixable() {
		return text, report
	}
	return Compose(fixed, body), report
}

// Repair runs the pipeline on raw header text (without delimiters) and
// returns the repaired header plus a report of every defect found. Link
// markup is stripped even from syntactically valid headers; the structural
// rules only run when the header fails strict parsing, so valid input is
// never rewritten by them.
func (e *Engine) Repair(raw string) (string, domain.DefectReport) {
	text, report := e.stripEmbeddedLinks(raw)

	if _, err := parseStrict(text); err != nil {
		rules := []func(string) (string, []domain.Defect){
			e.closeUnterminatedQuotes,
			e.foldMultilineScalars,
			e.quoteStructuralValues,
			e.dropDuplicateKeys,
		}
		for _, rule := range rules {
			var defects []domain.Defect
			text, defects = rule(text)
			report = append(report, defects...)
		}

		if _, err := parseStrict(text); err != nil {
			report = append(report, domain.Defect{
				Kind:    domain.DefectUnparseable,
				Snippet: err.Error(),
			})
			return raw, report
		}
	}

	if len(report) == 0 {
		return raw, nil
	}
	return text, report
}

// stripEmbeddedLinks removes [[...]] markup from field values, keeping the
// display text when an alias is present and the target otherwise. Markup
// wrapped across lines is collapsed onto one line first.
func (e *Engine) stripEmbeddedLinks(text string) (string, []domain.Defect) {
	for multilineLinkPattern.MatchString(text) {
		text = multilineLinkPattern.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Join(strings.Fields(m), " ")
		})
	}

	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var defects []domain.Defect
	var b strings.Builder
	last := 0
	for _, m := range matches {
		target := strings.TrimSpace(text[m[2]:m[3]])
		display := target
		if m[4] != -1 {
			display = strings.TrimSpace(text[m[4]:m[5]])
		}
		defects = append(defects, domain.Defect{
			Kind:    domain.DefectEmbeddedLink,
			Field:   fieldAt(text, m[0]),
			Snippet: text[m[0]:m[1]],
		})
		b.WriteString(text[last:m[0]])
		b.WriteString(display)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), defects
}

// closeUnterminatedQuotes appends the missing closing quote to values and
// sequence items that open a quote and never close it. The closing quote
// matches the opening style. Inline comments stay outside the quotes.
func (e *Engine) closeUnterminatedQuotes(text string) (string, []domain.Defect) {
	lines := strings.Split(text, "\n")
	var defects []domain.Defect

	for i, line := range lines {
		stripped := strings.TrimRight(line, " \t")

		m := quotedKeyPattern.FindStringSubmatch(stripped)
		if m == nil {
			m = quotedItemPattern.FindStringSubmatch(stripped)
		}
		if m == nil {
			continue
		}
		prefix, quote, rest := m[1], m[2], m[3]

		value, comment := splitInlineComment(rest)
		if strings.HasSuffix(value, quote) {
			continue
		}

		field := ""
		if km := topKeyPattern.FindStringSubmatch(stripped); km != nil {
			field = km[1]
		}
		defects = append(defects, domain.Defect{
			Kind:    domain.DefectUnterminatedQuote,
			Field:   field,
			Snippet: stripped,
		})
		lines[i] = prefix + quote + value + quote + comment
	}
	return strings.Join(lines, "\n"), defects
}

// foldMultilineScalars gathers stray unindented continuation lines under the
// key they belong to. Short values collapse onto the key line with single
// spaces; long ones become a literal block.
func (e *Engine) foldMultilineScalars(text string) (string, []domain.Defect) {
	lines := strings.Split(text, "\n")
	var out []string
	var defects []domain.Defect

	i := 0
	for i < len(lines) {
		line := lines[i]
		km := topKeyPattern.FindStringSubmatch(line)
		if km == nil {
			out = append(out, line)
			i++
			continue
		}

		colon := strings.Index(line, ":")
		value := strings.TrimSpace(line[colon+1:])
		if value == "" || startsWithAny(value, "|", ">", "[", "{", "&", "*") {
			out = append(out, line)
			i++
			continue
		}

		// Collect following unindented lines that are neither keys, sequence
		// items nor comments. Indented continuations are legal YAML plain
		// scalars and stay as they are.
		j := i + 1
		var cont []string
		for j < len(lines) {
			next := lines[j]
			trimmed := strings.TrimSpace(next)
			if trimmed == "" || topKeyPattern.MatchString(next) {
				break
			}
			if strings.HasPrefix(next, " ") || strings.HasPrefix(next, "\t") {
				break
			}
			if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "#") {
				break
			}
			cont = append(cont, trimmed)
			j++
		}
		if len(cont) == 0 {
			out = append(out, line)
			i++
			continue
		}

		defects = append(defects, domain.Defect{
			Kind:    domain.DefectMultilineScalar,
			Field:   km[1],
			Snippet: cont[0],
		})

		joined := value + " " + strings.Join(cont, " ")
		if len(joined) < e.collapseThreshold {
			out = append(out, line[:colon+1]+" "+joined)
		} else {
			out = append(out, line[:colon+1]+" |-")
			out = append(out, "  "+value)
			for _, c := range cont {
				out = append(out, "  "+c)
			}
		}
		i = j
	}
	return strings.Join(out, "\n"), defects
}

// quoteStructuralValues wraps plain values containing a colon-space or a bare
// quote in double quotes, escaping embedded quotes.
func (e *Engine) quoteStructuralValues(text string) (string, []domain.Defect) {
	lines := strings.Split(text, "\n")
	var defects []domain.Defect

	for i, line := range lines {
		m := keyValuePattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			continue
		}
		keyPart, value := m[1], m[2]

		if isFullyQuoted(value) || startsWithAny(value, "[", "{") {
			continue
		}
		if !strings.Contains(value, ": ") && !strings.Contains(value, `"`) {
			continue
		}

		value, comment := splitInlineComment(value)
		escaped := strings.ReplaceAll(value, `"`, `\"`)

		field := ""
		if km := topKeyPattern.FindStringSubmatch(line); km != nil {
			field = km[1]
		}
		defects = append(defects, domain.Defect{
			Kind:    domain.DefectUnescapedStructural,
			Field:   field,
			Snippet: value,
		})
		lines[i] = keyPart + `: "` + escaped + `"` + comment
	}
	return strings.Join(lines, "\n"), defects
}

// dropDuplicateKeys keeps the first occurrence of each top-level key and
// drops later ones together with their indented blocks.
func (e *Engine) dropDuplicateKeys(text string) (string, []domain.Defect) {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)
	var out []string
	var defects []domain.Defect

	i := 0
	for i < len(lines) {
		line := lines[i]
		km := topKeyPattern.FindStringSubmatch(line)
		if km == nil {
			out = append(out, line)
			i++
			continue
		}
		key := km[1]

		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) != "" && !topKeyPattern.MatchString(lines[j]) {
			j++
		}

		if seen[key] {
			defects = append(defects, domain.Defect{
				Kind:    domain.DefectDuplicateKey,
				Field:   key,
				Snippet: line,
			})
			i = j
			continue
		}
		seen[key] = true
		out = append(out, lines[i:j]...)
		i = j
	}
	return strings.Join(out, "\n"), defects
}

// fieldAt returns the top-level key governing the line that contains the
// given byte offset.
func fieldAt(text string, offset int) string {
	current := ""
	pos := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if m := topKeyPattern.FindStringSubmatch(line); m != nil {
			current = m[1]
		}
		pos += len(line)
		if offset < pos {
			break
		}
	}
	return current
}

// splitInlineComment separates a trailing " #"-style comment from a plain
// value. The comment keeps its leading space.
func splitInlineComment(s string) (value, comment string) {
	if idx := strings.Index(s, " #"); idx >= 0 {
		return strings.TrimRight(s[:idx], " \t"), s[idx:]
	}
	return strings.TrimRight(s, " \t"), ""
}

func isFullyQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first := s[0]
	return (first == '"' || first == '\'') && s[len(s)-1] == first
}

func startsWithAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
