package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func defaultEngine() *Engine {
	return NewEngine(domain.DefaultConfig().Frontmatter)
}

func TestRepair_ValidHeaderUntouched(t *testing.T) {
	e := defaultEngine()

	header := "title: My Article\nsource: https://example.com/a\n"
	fixed, report := e.Repair(header)
	assert.Equal(t, header, fixed)
	assert.Empty(t, report)
}

func TestRepair_EmptyHeader(t *testing.T) {
	e := defaultEngine()

	fixed, report := e.Repair("")
	assert.Equal(t, "", fixed)
	assert.Empty(t, report)
}

func TestRepair_StripsWikilinkFromListItem(t *testing.T) {
	e := defaultEngine()

	header := "author:\n  - \"[[Jane Doe]]\"\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "author:\n  - \"Jane Doe\"\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectEmbeddedLink, report[0].Kind)
	assert.Equal(t, "author", report[0].Field)
	assert.Equal(t, "[[Jane Doe]]", report[0].Snippet)
}

func TestRepair_WikilinkAliasKeepsDisplayText(t *testing.T) {
	e := defaultEngine()

	fixed, report := e.Repair("author: \"[[people/jane|Jane Doe]]\"\n")
	assert.Equal(t, "author: \"Jane Doe\"\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectEmbeddedLink, report[0].Kind)
}

func TestRepair_WikilinkWrappedAcrossLines(t *testing.T) {
	e := defaultEngine()

	fixed, report := e.Repair("author: \"[[Jane\nDoe]]\"\n")
	assert.Equal(t, "author: \"Jane Doe\"\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectEmbeddedLink, report[0].Kind)
}

func TestRepair_ClosesUnterminatedQuote(t *testing.T) {
	e := defaultEngine()

	header := "source: \"https://example.com\ntitle: ok\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "source: \"https://example.com\"\ntitle: ok\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectUnterminatedQuote, report[0].Kind)
	assert.Equal(t, "source", report[0].Field)
}

func TestRepair_ClosesUnterminatedSingleQuote(t *testing.T) {
	e := defaultEngine()

	fixed, report := e.Repair("title: 'half open\nsource: https://a.example\n")
	assert.Equal(t, "title: 'half open'\nsource: https://a.example\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectUnterminatedQuote, report[0].Kind)
}

func TestRepair_ClosesUnterminatedQuoteInListItem(t *testing.T) {
	e := defaultEngine()

	header := "tags:\n  - \"golang\n  - testing\n"
	fixed, _ := e.Repair(header)
	assert.Contains(t, fixed, "- \"golang\"\n")
}

func TestRepair_CollapsesShortMultilineScalar(t *testing.T) {
	e := defaultEngine()

	header := "description: This sentence was\nwrapped by the clipper\ntitle: ok\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "description: This sentence was wrapped by the clipper\ntitle: ok\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectMultilineScalar, report[0].Kind)
	assert.Equal(t, "description", report[0].Field)
}

func TestRepair_LongMultilineScalarBecomesLiteralBlock(t *testing.T) {
	cfg := domain.DefaultConfig().Frontmatter
	cfg.CollapseThreshold = 10
	e := NewEngine(cfg)

	header := "description: This sentence was\nwrapped by the clipper\ntitle: ok\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "description: |-\n  This sentence was\n  wrapped by the clipper\ntitle: ok\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectMultilineScalar, report[0].Kind)
}

func TestRepair_QuotesValueWithColonSpace(t *testing.T) {
	e := defaultEngine()

	fixed, report := e.Repair("title: Re: the plan\n")
	assert.Equal(t, "title: \"Re: the plan\"\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectUnescapedStructural, report[0].Kind)
	assert.Equal(t, "title", report[0].Field)
}

func TestRepair_EscapesBareQuotesWhileFixing(t *testing.T) {
	e := defaultEngine()

	header := "title: The \"Best\" Day\nsource: \"https://example.com\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "title: \"The \\\"Best\\\" Day\"\nsource: \"https://example.com\"\n", fixed)
	kinds := report.Kinds()
	assert.Contains(t, kinds, domain.DefectUnterminatedQuote)
	assert.Contains(t, kinds, domain.DefectUnescapedStructural)
}

func TestRepair_InlineListMarkerBecomesQuotedScalar(t *testing.T) {
	e := defaultEngine()

	// A list marker written on the key line is a plain scalar, not a list
	// item: the link markup is stripped, and the remaining bare quotes
	// force the whole value into quotes.
	fixed, report := e.Repair("author: - \"[[Jane Doe]]\"\n")
	assert.Equal(t, "author: \"- \\\"Jane Doe\\\"\"\n", fixed)

	require.Len(t, report, 2)
	assert.Equal(t, domain.DefectEmbeddedLink, report[0].Kind)
	assert.Equal(t, domain.DefectUnescapedStructural, report[1].Kind)

	again, second := e.Repair(fixed)
	assert.Equal(t, fixed, again)
	assert.Empty(t, second)
}

func TestRepair_DropsDuplicateKeyKeepingFirst(t *testing.T) {
	e := defaultEngine()

	header := "title: first\nsource: https://a.example\ntitle: second\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, "title: first\nsource: https://a.example\n", fixed)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectDuplicateKey, report[0].Kind)
	assert.Equal(t, "title", report[0].Field)
}

func TestRepair_Idempotent(t *testing.T) {
	e := defaultEngine()

	headers := []string{
		"author:\n  - \"[[Jane Doe]]\"\n",
		"source: \"https://example.com\ntitle: ok\n",
		"description: This sentence was\nwrapped by the clipper\ntitle: ok\n",
		"title: Re: the plan\n",
		"title: first\nsource: https://a.example\ntitle: second\n",
		"title: The \"Best\" Day\nsource: \"https://example.com\n",
	}
	for _, header := range headers {
		fixed, report := e.Repair(header)
		require.False(t, report.Unfixable(), "input should be fixable: %q", header)

		again, second := e.Repair(fixed)
		assert.Equal(t, fixed, again, "second pass must not change %q", header)
		assert.Empty(t, second, "second pass must report nothing for %q", header)
	}
}

func TestRepair_UnfixableReturnsOriginal(t *testing.T) {
	e := defaultEngine()

	header := "title: [unclosed\n"
	fixed, report := e.Repair(header)

	assert.Equal(t, header, fixed)
	assert.True(t, report.Unfixable())
}

func TestRepairDocument_NoHeaderPassesThrough(t *testing.T) {
	e := defaultEngine()

	text := "# Just a note\n\nNo frontmatter here.\n"
	out, report := e.RepairDocument(text)
	assert.Equal(t, text, out)
	assert.Empty(t, report)
}

func TestRepairDocument_ValidDocumentByteIdentical(t *testing.T) {
	e := defaultEngine()

	text := "---\ntitle: My Article\nsource: https://example.com/a\n---\n\n# Body\n"
	out, report := e.RepairDocument(text)
	assert.Equal(t, text, out)
	assert.Empty(t, report)
}

func TestRepairDocument_FixesHeaderKeepsBody(t *testing.T) {
	e := defaultEngine()

	text := "---\nsource: \"https://example.com\n---\n\n# Body\n\nContent here.\n"
	out, report := e.RepairDocument(text)

	assert.Equal(t, "---\nsource: \"https://example.com\"\n---\n\n# Body\n\nContent here.\n", out)
	require.Len(t, report, 1)
	assert.Equal(t, domain.DefectUnterminatedQuote, report[0].Kind)
}

func TestRepairDocument_UnfixableReturnsOriginal(t *testing.T) {
	e := defaultEngine()

	text := "---\ntitle: [unclosed\n---\nbody\n"
	out, report := e.RepairDocument(text)
	assert.Equal(t, text, out)
	assert.True(t, report.Unfixable())
}
