package driving

import "context"

// Extractor exports compact article metadata for the unfiled documents at
// the vault root, so downstream tooling can categorize articles without
// reading them in full.
type Extractor interface {
	Extract(ctx context.Context, opts ExtractOptions) (*ExtractReport, error)
}

// ExtractOptions control what goes into the export.
type ExtractOptions struct {
	// MaxChars caps the description preview length in runes. Zero means
	// the default preview length.
	MaxChars int

	// IncludeContent falls back to a body preview when a document carries
	// no description field.
	IncludeContent bool

	// IncludeStats adds per-article word counts.
	IncludeStats bool

	// IncludeFolders lists the vault's top-level folders in the report.
	IncludeFolders bool
}

// ArticleMetadata is the compact metadata of one article.
type ArticleMetadata struct {
	Index       int    `json:"index" yaml:"index"`
	Filename    string `json:"filename" yaml:"filename"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Domain      string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Published   string `json:"published,omitempty" yaml:"published,omitempty"`
	WordCount   int    `json:"word_count,omitempty" yaml:"word_count,omitempty"`
}

// ExtractError records one document that could not be read or parsed.
type ExtractError struct {
	Filename string `json:"filename" yaml:"filename"`
	Err      string `json:"error" yaml:"error"`
}

// ExtractReport is the full metadata export. Articles keep discovery order;
// a document that failed appears in Errors instead, still consuming its
// index.
type ExtractReport struct {
	Generated string            `json:"generated" yaml:"generated"`
	Total     int               `json:"total" yaml:"total"`
	Folders   []string          `json:"folders,omitempty" yaml:"folders,omitempty"`
	Articles  []ArticleMetadata `json:"articles" yaml:"articles"`
	Errors    []ExtractError    `json:"errors,omitempty" yaml:"errors,omitempty"`
}
