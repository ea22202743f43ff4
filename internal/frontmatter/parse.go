// Package frontmatter parses, repairs and re-emits the YAML header block of
// markdown documents. Malformed headers are the expected case: the repair
// engine applies deterministic fixes and reports what it could not normalize
// instead of failing.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parsed is the result of splitting a document into header and body.
type Parsed struct {
	// Fields is the decoded header mapping. Nil when there is no header.
	Fields map[string]any

	// Body is the document text after the closing delimiter.
	Body string

	// RawHeader is the header text between the delimiters, verbatim.
	RawHeader string

	// HasHeader reports whether the document opened with a header block.
	HasHeader bool
}

// Split divides document text into raw header and body without interpreting
// the header. ok is false when the document has no delimited header, in
// which case body is the whole text.
func Split(text string) (header, body string, ok bool) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \r\n") != "---" {
		return "", text, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \r\n") == "---" {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", text, false
}

// Parse splits a document and strictly decodes its header. A present but
// undecodable header is an error; documents without a header parse cleanly
// with nil Fields.
func Parse(text string) (Parsed, error) {
	header, body, ok := Split(text)
	if !ok {
		return Parsed{Body: body}, nil
	}

	fields, err := parseStrict(header)
	if err != nil {
		return Parsed{RawHeader: header, Body: body, HasHeader: true},
			fmt.Errorf("invalid frontmatter: %w", err)
	}

	return Parsed{
		Fields:    fields,
		Body:      body,
		RawHeader: header,
		HasHeader: true,
	}, nil
}

// parseStrict decodes a raw header into a mapping. The top level must be a
// mapping; anything else is an error.
func parseStrict(header string) (map[string]any, error) {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Compose reassembles a document from a raw header and body.
func Compose(header, body string) string {
	if header != "" && !strings.HasSuffix(header, "\n") {
		header += "\n"
	}
	return "---\n" + header + "---\n" + body
}
