package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(day int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)
	}
}

func TestRecordObservation_NewEntry(t *testing.T) {
	c := NewCache()
	c.SetClock(fixedClock(1))

	entry := c.RecordObservation("https://example.com/a", "a.md", "Article A", "Tech", "abc123")

	assert.Equal(t, "2026-08-01", entry.FirstSeen)
	assert.Equal(t, "2026-08-01", entry.LastSeen)
	assert.Equal(t, "a.md", entry.Filename)
	assert.Equal(t, "Article A", entry.Title)
	require.NotNil(t, entry.Folder)
	assert.Equal(t, "Tech", *entry.Folder)
	require.NotNil(t, entry.ContentHash)
	assert.Equal(t, "abc123", *entry.ContentHash)
	assert.True(t, entry.Active())
}

func TestRecordObservation_FirstSeenWriteOnce(t *testing.T) {
	c := NewCache()
	c.SetClock(fixedClock(1))
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")

	c.SetClock(fixedClock(20))
	entry := c.RecordObservation("https://example.com/a", "a-renamed.md", "A", "", "")

	assert.Equal(t, "2026-08-01", entry.FirstSeen)
	assert.Equal(t, "2026-08-20", entry.LastSeen)
	assert.Equal(t, "a-renamed.md", entry.Filename)
}

func TestRecordObservation_PreservesRemovedState(t *testing.T) {
	c := NewCache()
	c.SetClock(fixedClock(1))
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	c.MarkRemoved("https://example.com/a")

	entry := c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	assert.True(t, entry.Removed, "re-observation must not resurrect a removed entry")
	assert.NotNil(t, entry.RemovedAt)
}

func TestRecordObservation_EmptyHashKeepsFingerprint(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "abc123")

	entry := c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	require.NotNil(t, entry.ContentHash)
	assert.Equal(t, "abc123", *entry.ContentHash)
}

func TestRecordObservation_EmptyFolderMeansRoot(t *testing.T) {
	c := NewCache()
	entry := c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	assert.Nil(t, entry.Folder)
}

func TestCache_CanonicalizesKeys(t *testing.T) {
	c := NewCache()
	c.SetCanonicalizer(func(u string) string {
		return strings.TrimSuffix(u, "?utm_source=x")
	})

	c.RecordObservation("https://example.com/a?utm_source=x", "a.md", "A", "", "")

	entry, ok := c.Lookup("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "a.md", entry.Filename)
	assert.True(t, c.HasActive("https://example.com/a?utm_source=x"))

	_, keyed := c.Entries["https://example.com/a"]
	assert.True(t, keyed, "entries must be keyed by canonical URL")
}

func TestMarkRemoved(t *testing.T) {
	c := NewCache()
	c.SetClock(fixedClock(1))
	c.RecordObservation("https://example.com/a", "a.md", "A", "Tech", "")

	entry := c.MarkRemoved("https://example.com/a")
	require.NotNil(t, entry)
	assert.True(t, entry.Removed)
	assert.Nil(t, entry.Folder)
	require.NotNil(t, entry.RemovedAt)
	assert.Equal(t, "2026-08-01T12:00:00Z", *entry.RemovedAt)

	// Idempotent: only the timestamp refreshes.
	c.SetClock(fixedClock(2))
	again := c.MarkRemoved("https://example.com/a")
	assert.True(t, again.Removed)
	assert.Equal(t, "2026-08-02T12:00:00Z", *again.RemovedAt)
}

func TestMarkRemoved_UnknownURL(t *testing.T) {
	c := NewCache()
	assert.Nil(t, c.MarkRemoved("https://nowhere.example"))
}

func TestUpdateLocation(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "Tech", "")

	entry := c.UpdateLocation("https://example.com/a", "b.md", "")
	require.NotNil(t, entry)
	assert.Equal(t, "b.md", entry.Filename)
	require.NotNil(t, entry.Folder)
	assert.Equal(t, "Tech", *entry.Folder, "empty folder argument leaves folder alone")

	entry = c.UpdateLocation("https://example.com/a", "", "Science")
	assert.Equal(t, "b.md", entry.Filename)
	assert.Equal(t, "Science", *entry.Folder)

	assert.Nil(t, c.UpdateLocation("https://nowhere.example", "x.md", ""))
}

func TestFindByFilename_ActiveOnly(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	c.RecordObservation("https://example.com/b", "b.md", "B", "", "")
	c.MarkRemoved("https://example.com/b")

	url, entry, ok := c.FindByFilename("a.md")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", url)
	assert.Equal(t, "A", entry.Title)

	_, _, ok = c.FindByFilename("b.md")
	assert.False(t, ok)
}

func TestFindByHash(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "samehash")
	c.RecordObservation("https://example.com/b", "b.md", "B", "", "samehash")
	c.RecordObservation("https://example.com/c", "c.md", "C", "", "other")
	c.MarkRemoved("https://example.com/b")

	urls := c.FindByHash("samehash")
	assert.Equal(t, []string{"https://example.com/a"}, urls)
}

func TestClean(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	c.RecordObservation("https://example.com/b", "b.md", "B", "", "")

	marked := c.Clean(map[string]bool{"a.md": true})
	assert.Equal(t, 1, marked)
	assert.True(t, c.HasActive("https://example.com/a"))

	entry, ok := c.Lookup("https://example.com/b")
	require.True(t, ok)
	assert.True(t, entry.Removed)

	// A second clean finds nothing new.
	assert.Equal(t, 0, c.Clean(map[string]bool{"a.md": true}))
}

func TestCache_JSONRoundTrip(t *testing.T) {
	c := NewCache()
	c.SetClock(fixedClock(1))
	c.RecordObservation("https://example.com/a", "a.md", "A", "Tech", "abc123")
	c.MarkRemoved("https://example.com/a")
	c.RecordObservation("https://example.com/b", "b.md", "B", "", "")

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var loaded Cache
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, CacheVersion, loaded.Version)
	assert.Equal(t, c.Updated, loaded.Updated)
	require.Len(t, loaded.Entries, 2)

	entry, ok := loaded.Lookup("https://example.com/a")
	require.True(t, ok)
	assert.True(t, entry.Removed)
	assert.Equal(t, "2026-08-01", entry.FirstSeen)

	// Decoded caches keep working without explicit re-initialization.
	loaded.RecordObservation("https://example.com/c", "c.md", "C", "", "")
	assert.True(t, loaded.HasActive("https://example.com/c"))
}

func TestActiveAndRemovedViews(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")
	c.RecordObservation("https://example.com/b", "b.md", "B", "", "")
	c.MarkRemoved("https://example.com/b")

	active := c.ActiveEntries()
	removed := c.RemovedEntries()
	assert.Len(t, active, 1)
	assert.Len(t, removed, 1)
	assert.Contains(t, active, "https://example.com/a")
	assert.Contains(t, removed, "https://example.com/b")
}

func TestDelete(t *testing.T) {
	c := NewCache()
	c.RecordObservation("https://example.com/a", "a.md", "A", "", "")

	assert.True(t, c.Delete("https://example.com/a"))
	assert.False(t, c.Has("https://example.com/a"))
	assert.False(t, c.Delete("https://example.com/a"))
}
