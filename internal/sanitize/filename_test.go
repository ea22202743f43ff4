package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func defaultSanitizer() *FilenameSanitizer {
	return NewFilenameSanitizer(domain.DefaultConfig().Filenames)
}

func TestSanitize_Spaces(t *testing.T) {
	s := defaultSanitizer()
	assert.Equal(t, "My-Great-Article.md", s.Sanitize("My Great Article.md"))
}

func TestSanitize_SpecialCharacters(t *testing.T) {
	s := defaultSanitizer()

	tests := []struct {
		in   string
		want string
	}{
		{"what's new?.md", "whats-new.md"},
		{"a/b\\c|d.md", "a-b-c-d.md"},
		{"title: subtitle.md", "title-subtitle.md"},
		{"<angle> *star*.md", "angle-star.md"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.in))
		})
	}
}

func TestSanitize_Accents(t *testing.T) {
	s := defaultSanitizer()
	assert.Equal(t, "Cafe-resume.md", s.Sanitize("Café résumé.md"))
}

func TestSanitize_CollapsesDashes(t *testing.T) {
	s := defaultSanitizer()
	assert.Equal(t, "a-b.md", s.Sanitize("a -- b.md"))
}

func TestSanitize_TrimsDashesAroundStem(t *testing.T) {
	s := defaultSanitizer()
	assert.Equal(t, "title.md", s.Sanitize("-title-.md"))
}

func TestSanitize_TruncatesPreservingExtension(t *testing.T) {
	s := defaultSanitizer()

	long := strings.Repeat("a", 150) + ".md"
	got := s.Sanitize(long)
	assert.True(t, strings.HasSuffix(got, ".md"))
	assert.LessOrEqual(t, len([]rune(got)), 100)
}

func TestSanitize_LengthMeasuredInCharacters(t *testing.T) {
	cfg := domain.DefaultConfig().Filenames
	cfg.MaxLength = 10
	cfg.UnicodeNormalize = "" // keep multibyte runes intact
	s := NewFilenameSanitizer(cfg)

	got := s.Sanitize("aaaaaaaaaaaaaaa")
	assert.Equal(t, 10, len([]rune(got)))
}

func TestSanitize_Idempotent(t *testing.T) {
	s := defaultSanitizer()

	inputs := []string{
		"My Great Article.md",
		"Café résumé.md",
		"what's new?.md",
		strings.Repeat("x", 200) + ".md",
	}
	for _, in := range inputs {
		once := s.Sanitize(in)
		assert.Equal(t, once, s.Sanitize(once), "Sanitize must be idempotent for %q", in)
	}
}

func TestSanitize_Lowercase(t *testing.T) {
	cfg := domain.DefaultConfig().Filenames
	cfg.Lowercase = true
	s := NewFilenameSanitizer(cfg)

	assert.Equal(t, "my-article.md", s.Sanitize("My Article.md"))
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Why-Go-Is-Fast", SanitizeTitle("Why Go Is Fast!", 100))
	assert.Equal(t, "article", SanitizeTitle("???", 100))
}

func TestSanitizeTitle_TruncatesAtWordBoundary(t *testing.T) {
	got := SanitizeTitle("one two three four five", 12)
	assert.Equal(t, "one-two", got)
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{
		"a.md":   true,
		"a-2.md": true,
	}
	exists := func(name string) bool { return taken[name] }

	assert.Equal(t, "b.md", UniqueName("b.md", exists))
	assert.Equal(t, "a-3.md", UniqueName("a.md", exists))
}
