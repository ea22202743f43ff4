package domain

import (
	"fmt"
	"time"
)

// DateSource identifies where a resolved date came from.
type DateSource string

// Date sources, in the order the resolver tries them.
const (
	DateFromHeader   DateSource = "header"
	DateFromContent  DateSource = "content"
	DateFromFilename DateSource = "filename"
	DateAbsent       DateSource = "absent"
)

// ResolvedDate is a calendar date with a provenance tag. Absence is a valid,
// reportable outcome: the resolver never guesses beyond what an explicit
// field or pattern matched.
type ResolvedDate struct {
	// Date is the resolved calendar date. Zero when Source is DateAbsent.
	Date time.Time

	// Source is where the date came from.
	Source DateSource

	// Field is the header field that matched, for header-sourced dates.
	Field string

	// PatternIndex is the content pattern that matched, for content-sourced
	// dates.
	PatternIndex int

	// Original is the raw text the date was parsed from.
	Original string
}

// Absent reports whether no date could be resolved.
func (r ResolvedDate) Absent() bool {
	return r.Source == DateAbsent || r.Source == ""
}

// Provenance renders the provenance tag: "from-header:<field>",
// "from-content:<pattern-index>", "from-filename" or "absent".
func (r ResolvedDate) Provenance() string {
	switch r.Source {
	case DateFromHeader:
		return "from-header:" + r.Field
	case DateFromContent:
		return fmt.Sprintf("from-content:%d", r.PatternIndex)
	case DateFromFilename:
		return "from-filename"
	default:
		return "absent"
	}
}
