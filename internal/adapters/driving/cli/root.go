// Package cli wires the clipvault commands to the core services.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	cachefile "github.com/clipvault/clipvault-cli/internal/adapters/driven/cachestore/file"
	configfile "github.com/clipvault/clipvault-cli/internal/adapters/driven/config/file"
	"github.com/clipvault/clipvault-cli/internal/adapters/driven/vault"
	"github.com/clipvault/clipvault-cli/internal/connectors/web"
	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/core/services"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
	vaultFlag   string
)

// Package-level service singletons, wired by setup before a command runs.
var (
	cfg        *domain.Config
	configPath string

	preprocessor    driving.Preprocessor
	duplicateFinder driving.DuplicateFinder
	mover           driving.Mover
	trasher         driving.Trasher
	validator       driving.Validator
	statsProvider   driving.StatsProvider
	fetcher         driving.Fetcher
	extractor       driving.Extractor
)

var rootCmd = &cobra.Command{
	Use:   "clipvault",
	Short: "Preprocess and deduplicate web-clipped markdown vaults",
	Long: `clipvault keeps a vault of web-clipped markdown articles tidy:
it repairs broken YAML frontmatter, canonicalizes source URLs, prefixes
filenames with resolved dates and tracks every article in a duplicate
cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if standalone(cmd) {
			return nil
		}
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "", "vault root (overrides config)")
}

// standalone reports whether a command runs without a wired vault.
func standalone(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "version", "help", "completion":
		return true
	}
	return false
}

// setup loads configuration and builds the service graph shared by all
// vault-bound commands.
func setup() error {
	path, ok := configfile.Locate(configFlag)
	if configFlag != "" && !ok {
		return fmt.Errorf("config file %s not found", configFlag)
	}

	loaded, err := configfile.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	configPath = path

	if vaultFlag != "" {
		cfg.Paths.Root = vaultFlag
	}

	v, err := vault.New(cfg.Paths.Root, cfg.SpecialFolders)
	if err != nil {
		return fmt.Errorf("%w (run 'clipvault init' first?)", err)
	}

	cachePath := cfg.Paths.Cache
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(cfg.Paths.Root, cachePath)
	}
	store := cachefile.NewStore(cachePath)

	preprocessor = services.NewPreprocessor(cfg, v, store)
	duplicateFinder = services.NewDuplicateScanner(cfg, v)
	mover = services.NewMover(v, store)
	trasher = services.NewTrasher(v, store)
	validator = services.NewValidator(cfg, configPath, store)
	statsProvider = services.NewStatsService(cfg, v)
	fetcher = services.NewFetchService(cfg, v, store, web.New(cfg.Fetch))
	extractor = services.NewExtractService(cfg, v)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
