package domain

// DefectKind identifies a class of structural malformation in a header block.
type DefectKind string

// Defect classes the repair engine recognises. The engine applies fixes in
// this order; `unparseable` is reported only when the repaired header still
// fails strict parsing.
const (
	DefectEmbeddedLink        DefectKind = "embedded-link-markup"
	DefectUnterminatedQuote   DefectKind = "unterminated-quote"
	DefectMultilineScalar     DefectKind = "multiline-scalar"
	DefectUnescapedStructural DefectKind = "unescaped-structural"
	DefectDuplicateKey        DefectKind = "duplicate-key"
	DefectUnparseable         DefectKind = "unparseable"
)

// Defect records one malformation found (and usually fixed) in a document's
// header block.
type Defect struct {
	// Kind is the defect class.
	Kind DefectKind

	// Field is the header field the defect was found in, when attributable.
	Field string

	// Snippet is the original text that triggered the defect.
	Snippet string
}

// DefectReport is the sequence of defects attached to one document. An empty
// report means the header was already valid or was fully repaired.
type DefectReport []Defect

// Unfixable reports whether the header could not be normalised into
// syntactically valid form.
func (r DefectReport) Unfixable() bool {
	for _, d := range r {
		if d.Kind == DefectUnparseable {
			return true
		}
	}
	return false
}

// Kinds returns the distinct defect kinds present, in first-seen order.
func (r DefectReport) Kinds() []DefectKind {
	seen := make(map[DefectKind]bool, len(r))
	var kinds []DefectKind
	for _, d := range r {
		if !seen[d.Kind] {
			seen[d.Kind] = true
			kinds = append(kinds, d.Kind)
		}
	}
	return kinds
}
