package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one ordered header field for building fresh frontmatter.
type Field struct {
	Name  string
	Value string
}

// BuildHeader emits a complete delimited header from ordered fields. Values
// are double-quoted so titles with structural characters survive a later
// parse. Empty values are skipped.
func BuildHeader(fields []Field) string {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Value, Style: yaml.DoubleQuotedStyle},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return "---\n---\n"
	}
	enc.Close()
	return "---\n" + buf.String() + "---\n"
}

// ReplaceScalar rewrites the value of a top-level key in raw header text,
// keeping the line's quoting style and everything else byte-identical. It
// reports whether the key was found.
func ReplaceScalar(header, field, value string) (string, bool) {
	lines := strings.Split(header, "\n")
	for i, line := range lines {
		km := topKeyPattern.FindStringSubmatch(line)
		if km == nil || km[1] != field {
			continue
		}

		colon := strings.Index(line, ":")
		old := strings.TrimSpace(line[colon+1:])
		if old == "" {
			// Key with a block value; leave it alone.
			return header, false
		}

		replacement := value
		if len(old) >= 2 && (old[0] == '"' || old[0] == '\'') && old[len(old)-1] == old[0] {
			replacement = string(old[0]) + value + string(old[0])
		}
		lines[i] = line[:colon+1] + " " + replacement
		return strings.Join(lines, "\n"), true
	}
	return header, false
}
