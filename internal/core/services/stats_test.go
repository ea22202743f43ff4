package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
)

func TestStats_CountsPerFolder(t *testing.T) {
	docs := map[string]string{
		"root-note.md": "x\n",
	}
	for i := 0; i < 12; i++ {
		docs[fmt.Sprintf("Tech/t%02d.md", i)] = "x\n"
	}
	for i := 0; i < 3; i++ {
		docs[fmt.Sprintf("Music/m%d.md", i)] = "x\n"
	}
	v := newTestVault(t, docs)

	report, err := NewStatsService(domain.DefaultConfig(), v).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 16, report.Total)
	require.Len(t, report.Folders, 3)

	// Sorted by folder name; "(root)" sorts first.
	assert.Equal(t, "(root)", report.Folders[0].Folder)
	assert.Equal(t, 1, report.Folders[0].Count)
	assert.Empty(t, report.Folders[0].Warning, "root is exempt from thresholds")

	assert.Equal(t, "Music", report.Folders[1].Folder)
	assert.Equal(t, 3, report.Folders[1].Count)
	assert.Contains(t, report.Folders[1].Warning, "fewer than 10")

	assert.Equal(t, "Tech", report.Folders[2].Folder)
	assert.Equal(t, 12, report.Folders[2].Count)
	assert.Empty(t, report.Folders[2].Warning)
}

func TestStats_WarnAbove(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Folders.WarnBelow = 0
	cfg.Folders.WarnAbove = 2

	v := newTestVault(t, map[string]string{
		"Tech/a.md": "x\n",
		"Tech/b.md": "x\n",
		"Tech/c.md": "x\n",
	})

	report, err := NewStatsService(cfg, v).Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Folders, 1)
	assert.Contains(t, report.Folders[0].Warning, "more than 2")
}
