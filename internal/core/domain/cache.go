package domain

import "time"

// CacheVersion is the current on-disk cache schema version.
const CacheVersion = 1

// cacheDateLayout renders first_seen/last_seen dates.
const cacheDateLayout = "2006-01-02"

// CacheEntry represents one previously processed document, keyed in the
// cache by its canonical source URL.
type CacheEntry struct {
	// Filename is the document's current filename.
	Filename string `json:"filename"`

	// Title is the document title as last observed.
	Title string `json:"title"`

	// Folder is the current folder location. Nil means at the vault root
	// or unknown.
	Folder *string `json:"folder"`

	// FirstSeen is the date the URL was first observed (YYYY-MM-DD).
	// Set once at creation and never changed afterwards.
	FirstSeen string `json:"first_seen"`

	// LastSeen is the date the URL was most recently observed (YYYY-MM-DD).
	LastSeen string `json:"last_seen"`

	// Removed marks an entry whose document was deliberately discarded.
	// Removed entries are retained to preserve history and prevent
	// re-fetching discarded content.
	Removed bool `json:"removed"`

	// RemovedAt is when the entry was marked removed (RFC 3339), nil if
	// the entry is active.
	RemovedAt *string `json:"removed_at"`

	// ContentHash is the body fingerprint, nil until first computed.
	ContentHash *string `json:"content_hash"`
}

// Active reports whether the entry has not been marked removed.
func (e *CacheEntry) Active() bool {
	return !e.Removed
}

// Cache is the persisted, URL-keyed record of previously observed documents.
// Keys are canonical URLs: every operation canonicalizes its URL argument
// before touching the map, so two URLs that differ only by tracking noise
// resolve to the same entry.
//
// Cache is not safe for concurrent mutation. The orchestrator applies all
// mutations sequentially after its parallel per-document phase.
type Cache struct {
	Version int                    `json:"version"`
	Updated string                 `json:"updated"`
	Entries map[string]*CacheEntry `json:"entries"`

	canonicalize func(string) string
	now          func() time.Time
}

// NewCache creates an empty cache with an identity canonicalizer.
func NewCache() *Cache {
	c := &Cache{
		Version: CacheVersion,
		Entries: make(map[string]*CacheEntry),
	}
	c.init()
	c.touch()
	return c
}

// init restores the unexported function fields after construction or JSON
// decoding.
func (c *Cache) init() {
	if c.canonicalize == nil {
		c.canonicalize = func(u string) string { return u }
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.Entries == nil {
		c.Entries = make(map[string]*CacheEntry)
	}
	if c.Version == 0 {
		c.Version = CacheVersion
	}
}

// SetCanonicalizer installs the URL canonicalization function used to derive
// cache keys. Must be set before use when URLs may carry tracking noise.
func (c *Cache) SetCanonicalizer(f func(string) string) {
	if f != nil {
		c.canonicalize = f
	}
}

// SetClock overrides the time source. Used by tests.
func (c *Cache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *Cache) key(url string) string {
	c.init()
	return c.canonicalize(url)
}

func (c *Cache) touch() {
	c.init()
	c.Updated = c.now().UTC().Format(time.RFC3339)
}

// Lookup returns the entry for a URL, or false if the URL has never been
// observed. Lookup never mutates the cache.
func (c *Cache) Lookup(url string) (*CacheEntry, bool) {
	c.init()
	e, ok := c.Entries[c.key(url)]
	return e, ok
}

// Has reports whether the URL is in the cache, active or removed.
func (c *Cache) Has(url string) bool {
	_, ok := c.Lookup(url)
	return ok
}

// HasActive reports whether the URL is in the cache and not removed.
func (c *Cache) HasActive(url string) bool {
	e, ok := c.Lookup(url)
	return ok && e.Active()
}

// RecordObservation creates or refreshes the entry for a URL. A new entry
// gets first_seen = today; an existing entry keeps its first_seen and removed
// state and has filename, title, folder, fingerprint and last_seen updated.
// Empty folder means the vault root; an empty hash leaves any previously
// recorded fingerprint in place.
func (c *Cache) RecordObservation(url, filename, title, folder, hash string) *CacheEntry {
	c.init()
	key := c.key(url)
	today := c.now().Format(cacheDateLayout)

	entry, ok := c.Entries[key]
	if !ok {
		entry = &CacheEntry{
			FirstSeen: today,
		}
		c.Entries[key] = entry
	}

	entry.Filename = filename
	entry.Title = title
	entry.Folder = optional(folder)
	entry.LastSeen = today
	if hash != "" {
		entry.ContentHash = &hash
	}

	c.touch()
	return entry
}

// UpdateLocation refreshes the filename and/or folder of an existing entry,
// leaving other attributes alone. Empty arguments are ignored. Returns nil
// if the URL is unknown.
func (c *Cache) UpdateLocation(url, filename, folder string) *CacheEntry {
	c.init()
	entry, ok := c.Entries[c.key(url)]
	if !ok {
		return nil
	}

	if filename != "" {
		entry.Filename = filename
	}
	if folder != "" {
		entry.Folder = &folder
	}
	entry.LastSeen = c.now().Format(cacheDateLayout)
	c.touch()
	return entry
}

// MarkRemoved marks an entry as deliberately discarded: removed=true,
// removed_at=now, folder cleared. The entry itself is retained. Marking an
// already-removed entry only refreshes the timestamp. Returns nil if the URL
// is unknown.
func (c *Cache) MarkRemoved(url string) *CacheEntry {
	c.init()
	entry, ok := c.Entries[c.key(url)]
	if !ok {
		return nil
	}

	ts := c.now().UTC().Format(time.RFC3339)
	entry.Removed = true
	entry.RemovedAt = &ts
	entry.Folder = nil
	c.touch()
	return entry
}

// Delete removes an entry outright. Reserved for explicit maintenance;
// normal lifecycle keeps removed entries around.
func (c *Cache) Delete(url string) bool {
	c.init()
	key := c.key(url)
	if _, ok := c.Entries[key]; !ok {
		return false
	}
	delete(c.Entries, key)
	c.touch()
	return true
}

// FindByFilename returns the URL and entry of the active entry with the
// given filename, or false when no active entry matches.
func (c *Cache) FindByFilename(filename string) (string, *CacheEntry, bool) {
	c.init()
	for url, entry := range c.Entries {
		if entry.Filename == filename && entry.Active() {
			return url, entry, true
		}
	}
	return "", nil, false
}

// FindByHash returns the URLs of all active entries whose fingerprint
// matches.
func (c *Cache) FindByHash(hash string) []string {
	c.init()
	var urls []string
	for url, entry := range c.Entries {
		if entry.Active() && entry.ContentHash != nil && *entry.ContentHash == hash {
			urls = append(urls, url)
		}
	}
	return urls
}

// ActiveEntries returns all non-removed entries keyed by URL.
func (c *Cache) ActiveEntries() map[string]*CacheEntry {
	c.init()
	out := make(map[string]*CacheEntry)
	for url, entry := range c.Entries {
		if entry.Active() {
			out[url] = entry
		}
	}
	return out
}

// RemovedEntries returns all removed entries keyed by URL.
func (c *Cache) RemovedEntries() map[string]*CacheEntry {
	c.init()
	out := make(map[string]*CacheEntry)
	for url, entry := range c.Entries {
		if entry.Removed {
			out[url] = entry
		}
	}
	return out
}

// Clean marks removed every active entry whose filename is not in the given
// set of files that still exist on disk. Returns the number of entries
// marked.
func (c *Cache) Clean(existing map[string]bool) int {
	c.init()
	var stale []string
	for url, entry := range c.Entries {
		if entry.Active() && !existing[entry.Filename] {
			stale = append(stale, url)
		}
	}
	for _, url := range stale {
		// URL keys are already canonical; MarkRemoved re-canonicalizes,
		// which is a no-op for an idempotent canonicalizer.
		c.MarkRemoved(url)
	}
	return len(stale)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
