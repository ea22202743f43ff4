package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Stable(t *testing.T) {
	body := "Some article body.\n\nWith paragraphs."
	assert.Equal(t, Hash(body, "sha256", 16), Hash(body, "sha256", 16))
}

func TestHash_SingleByteDifference(t *testing.T) {
	a := Hash("content", "sha256", 16)
	b := Hash("content.", "sha256", 16)
	assert.NotEqual(t, a, b)
}

func TestHash_Truncation(t *testing.T) {
	full := Hash("content", "sha256", 0)
	assert.Len(t, full, 64)

	short := Hash("content", "sha256", 16)
	assert.Len(t, short, 16)
	assert.Equal(t, full[:16], short)
}

func TestHash_Algorithms(t *testing.T) {
	tests := []struct {
		algorithm string
		fullLen   int
	}{
		{"sha256", 64},
		{"sha1", 40},
		{"md5", 32},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			digest := Hash("content", tt.algorithm, 0)
			assert.Len(t, digest, tt.fullLen)
		})
	}
}

func TestHash_UnknownAlgorithmFallsBack(t *testing.T) {
	assert.Equal(t, Hash("content", "sha256", 16), Hash("content", "whirlpool", 16))
	assert.Equal(t, Hash("content", "", 16), Hash("content", "sha256", 16))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Hash("content", "sha256", DefaultLength), Default("content"))
}
