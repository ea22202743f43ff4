package domain

// Config is the full clipvault configuration. It is loaded once at startup
// and shared read-only across workers; all pattern lists and alias tables are
// configuration-as-data, consumed in order.
type Config struct {
	Version        int                  `toml:"version"`
	Paths          PathsConfig          `toml:"paths"`
	SpecialFolders SpecialFoldersConfig `toml:"special_folders"`
	Frontmatter    FrontmatterConfig    `toml:"frontmatter"`
	Dates          DatesConfig          `toml:"dates"`
	URLCleaning    URLCleaningConfig    `toml:"url_cleaning"`
	Filenames      FilenamesConfig      `toml:"filenames"`
	Folders        FoldersConfig        `toml:"folders"`
	Cache          CacheConfig          `toml:"cache"`
	Fetch          FetchConfig          `toml:"fetch"`
}

// PathsConfig locates the vault and its cache file.
type PathsConfig struct {
	// Root is the vault root directory. Relative roots resolve against the
	// working directory.
	Root string `toml:"root"`

	// Cache is the cache file location, relative to Root unless absolute.
	Cache string `toml:"cache"`
}

// SpecialFoldersConfig controls which files and folders discovery skips.
type SpecialFoldersConfig struct {
	// ExcludePatterns are glob patterns for folders to skip.
	ExcludePatterns []string `toml:"exclude_patterns"`

	// IgnoreFiles are exact filenames never treated as articles.
	IgnoreFiles []string `toml:"ignore_files"`
}

// FrontmatterConfig is the field alias table: for each semantic field, the
// literal header field names to try, in priority order.
type FrontmatterConfig struct {
	SourceURL     []string `toml:"source_url"`
	Title         []string `toml:"title"`
	PublishedDate []string `toml:"published_date"`
	ClippedDate   []string `toml:"clipped_date"`
	Author        []string `toml:"author"`
	Description   []string `toml:"description"`

	// CollapseThreshold is the joined-length cutoff below which a stray
	// multi-line scalar is collapsed to a single line instead of re-emitted
	// as a literal block.
	CollapseThreshold int `toml:"collapse_threshold"`
}

// DatesConfig controls date resolution and filename prefixing.
type DatesConfig struct {
	// InputFormats are Go time layouts tried in order against header
	// field values.
	InputFormats []string `toml:"input_formats"`

	// OutputFormat renders the filename date prefix.
	OutputFormat string `toml:"output_format"`

	// PrefixPriority is the order of header fields consulted for the
	// prefix date.
	PrefixPriority []string `toml:"prefix_priority"`

	// ExtractFromContent enables scanning the body text for a date when no
	// header field yields one.
	ExtractFromContent bool `toml:"extract_from_content"`

	// ContentPatterns are regexes with named day/month/year groups, tried
	// in order against the body.
	ContentPatterns []string `toml:"content_patterns"`

	// MonthNames maps lowercase month names and abbreviations to month
	// numbers. Replace the table to support another locale.
	MonthNames map[string]int `toml:"month_names"`
}

// URLCleaningConfig controls canonicalization of source URLs.
type URLCleaningConfig struct {
	// RemoveParams are query parameter names to strip, matched
	// case-sensitively and exactly.
	RemoveParams []string `toml:"remove_params"`

	// UnwrapPatterns are regexes with one capture group naming the real
	// destination of a redirect-wrapper URL.
	UnwrapPatterns []string `toml:"unwrap_patterns"`
}

// Replacement is one literal character-to-string substitution applied during
// filename sanitization. Replacements apply in configuration order.
type Replacement struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// FilenamesConfig controls filename sanitization.
type FilenamesConfig struct {
	Replacements []Replacement `toml:"replacements"`

	// UnicodeNormalize is the normalization form applied before character
	// filtering: NFC, NFD, NFKC, NFKD or empty to skip.
	UnicodeNormalize string `toml:"unicode_normalize"`

	Lowercase bool `toml:"lowercase"`

	// MaxLength caps the filename in characters, extension excluded.
	MaxLength int `toml:"max_length"`

	CollapseDashes bool `toml:"collapse_dashes"`
}

// FoldersConfig sets per-folder article count warning thresholds for stats.
// Zero disables a threshold.
type FoldersConfig struct {
	WarnBelow int `toml:"warn_below"`
	WarnAbove int `toml:"warn_above"`
}

// CacheConfig controls duplicate tracking.
type CacheConfig struct {
	TrackURLs        bool `toml:"track_urls"`
	TrackContentHash bool `toml:"track_content_hash"`

	// HashAlgorithm selects the fingerprint algorithm: sha256, sha1 or md5.
	HashAlgorithm string `toml:"hash_algorithm"`

	// HashLength truncates the hex fingerprint; 0 keeps the full digest.
	HashLength int `toml:"hash_length"`
}

// FetchConfig controls remote content retrieval.
type FetchConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	UserAgent         string  `toml:"user_agent"`
	MaxConcurrent     int     `toml:"max_concurrent"`
	MaxRetries        int     `toml:"max_retries"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// FeedLimit caps the number of entries taken from a feed.
	FeedLimit int `toml:"feed_limit"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Root:  ".",
			Cache: ".clipvault/cache.json",
		},
		SpecialFolders: SpecialFoldersConfig{
			ExcludePatterns: []string{"0-*", ".*", "_*"},
			IgnoreFiles:     []string{"README.md"},
		},
		Frontmatter: FrontmatterConfig{
			SourceURL:         []string{"source", "url", "link", "original_url", "clip_url"},
			Title:             []string{"title", "name"},
			PublishedDate:     []string{"published", "date", "publish_date"},
			ClippedDate:       []string{"clipped", "saved", "created", "added"},
			Author:            []string{"author", "by", "writer", "creator"},
			Description:       []string{"description", "summary", "excerpt", "abstract"},
			CollapseThreshold: 120,
		},
		Dates: DatesConfig{
			InputFormats: []string{
				"2006-01-02",
				"2006-01-02T15:04:05",
				"02/01/2006",
				"January 2, 2006",
				"2 January 2006",
				"2006/01/02",
			},
			OutputFormat:       "20060102",
			PrefixPriority:     []string{"published", "clipped", "created"},
			ExtractFromContent: true,
			ContentPatterns: []string{
				`(?P<day>\d{1,2})(?:st|nd|rd|th)?\s+(?P<month>\w+)\s+(?P<year>\d{4})`,
				`(?P<month>\w+)\s+(?P<day>\d{1,2})(?:st|nd|rd|th)?,?\s+(?P<year>\d{4})`,
				`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})`,
			},
			MonthNames: DefaultMonthNames(),
		},
		URLCleaning: URLCleaningConfig{
			RemoveParams: []string{
				"utm_source", "utm_medium", "utm_campaign", "utm_content",
				"utm_term", "fbclid", "gclid", "ref", "source",
			},
		},
		Filenames: FilenamesConfig{
			Replacements: []Replacement{
				{From: " ", To: "-"},
				{From: "_", To: "-"},
				{From: "'", To: ""},
				{From: `"`, To: ""},
				{From: ":", To: "-"},
				{From: "/", To: "-"},
				{From: `\`, To: "-"},
				{From: "|", To: "-"},
				{From: "?", To: ""},
				{From: "*", To: ""},
				{From: "<", To: ""},
				{From: ">", To: ""},
			},
			UnicodeNormalize: "NFD",
			MaxLength:        100,
			CollapseDashes:   true,
		},
		Folders: FoldersConfig{
			WarnBelow: 10,
			WarnAbove: 45,
		},
		Cache: CacheConfig{
			TrackURLs:        true,
			TrackContentHash: true,
			HashAlgorithm:    "sha256",
			HashLength:       16,
		},
		Fetch: FetchConfig{
			TimeoutSeconds:    30,
			UserAgent:         "clipvault/0.1",
			MaxConcurrent:     5,
			MaxRetries:        3,
			RetryDelaySeconds: 1,
			RequestsPerSecond: 2,
			FeedLimit:         10,
		},
	}
}

// DefaultMonthNames is the English month table. Date resolution looks month
// names up case-insensitively against this mapping; swap it out in
// configuration for other locales.
func DefaultMonthNames() map[string]int {
	return map[string]int{
		"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
		"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
		"november": 11, "december": 12,
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
		"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	}
}
