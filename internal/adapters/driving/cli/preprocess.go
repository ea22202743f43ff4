package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault-cli/internal/connectors/filesystem"
	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

var (
	preprocessDryRun      bool
	preprocessJobs        int
	preprocessSkipRepair  bool
	preprocessSkipURLs    bool
	preprocessSkipDates   bool
	preprocessSkipRenames bool
	preprocessNoCache     bool
	preprocessWatch       bool
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [paths...]",
	Short: "Repair headers, clean URLs and rename documents",
	Long: `Runs the preprocessing pipeline over the vault (or just the given
relative paths): frontmatter repair, source URL canonicalization, date
resolution with filename prefixing, and duplicate cache bookkeeping.`,
	RunE: runPreprocess,
}

func init() {
	preprocessCmd.Flags().BoolVar(&preprocessDryRun, "dry-run", false, "report changes without touching anything")
	preprocessCmd.Flags().IntVar(&preprocessJobs, "jobs", 0, "parallel workers (0 = one per CPU)")
	preprocessCmd.Flags().BoolVar(&preprocessSkipRepair, "skip-repair", false, "skip frontmatter repair")
	preprocessCmd.Flags().BoolVar(&preprocessSkipURLs, "skip-urls", false, "skip URL cleaning")
	preprocessCmd.Flags().BoolVar(&preprocessSkipDates, "skip-dates", false, "skip date resolution")
	preprocessCmd.Flags().BoolVar(&preprocessSkipRenames, "skip-renames", false, "skip filename changes")
	preprocessCmd.Flags().BoolVar(&preprocessNoCache, "no-cache", false, "leave the duplicate cache untouched")
	preprocessCmd.Flags().BoolVar(&preprocessWatch, "watch", false, "keep running, preprocessing files as they change")
	rootCmd.AddCommand(preprocessCmd)
}

func preprocessOptions(paths []string) driving.PreprocessOptions {
	return driving.PreprocessOptions{
		Paths:       paths,
		DryRun:      preprocessDryRun,
		Jobs:        preprocessJobs,
		SkipRepair:  preprocessSkipRepair,
		SkipURLs:    preprocessSkipURLs,
		SkipDates:   preprocessSkipDates,
		SkipRenames: preprocessSkipRenames,
		SkipCache:   preprocessNoCache,
	}
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	if preprocessor == nil {
		return errors.New("preprocess service not configured")
	}

	ctx := cmd.Context()
	report, err := preprocessor.Preprocess(ctx, preprocessOptions(args))
	if err != nil {
		return fmt.Errorf("preprocess failed: %w", err)
	}
	printPreprocessReport(cmd, report)

	if !preprocessWatch {
		return nil
	}
	return watchLoop(ctx, cmd)
}

// watchLoop re-runs preprocessing on changed files until interrupted.
func watchLoop(ctx context.Context, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl-C to stop.")
	watcher := filesystem.NewWatcher(cfg.Paths.Root, cfg.SpecialFolders, 0, func(ctx context.Context, paths []string) {
		report, err := preprocessor.Preprocess(ctx, preprocessOptions(paths))
		if err != nil {
			logger.Error("preprocess failed: %v", err)
			return
		}
		printPreprocessReport(cmd, report)
	})

	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printPreprocessReport(cmd *cobra.Command, report *driving.PreprocessReport) {
	cmd.Printf("Processed %d documents in %s\n", report.Total, report.Duration.Round(time.Millisecond))
	cmd.Printf("  valid: %d  repaired: %d  unfixable: %d\n",
		report.AlreadyValid, report.Repaired, report.Unfixable)

	if len(report.DefectCounts) > 0 {
		kinds := make([]string, 0, len(report.DefectCounts))
		for kind := range report.DefectCounts {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		cmd.Println("  defects:")
		for _, kind := range kinds {
			cmd.Printf("    %s: %d\n", kind, report.DefectCounts[domain.DefectKind(kind)])
		}
	}
	if report.URLsCleaned > 0 {
		cmd.Printf("  URLs cleaned: %d\n", report.URLsCleaned)
	}
	for _, rename := range report.Renames {
		cmd.Printf("  rename: %s -> %s\n", rename.From, rename.To)
	}
	if report.DuplicateURLs > 0 {
		cmd.Printf("  duplicate URLs: %d\n", report.DuplicateURLs)
	}
	if report.CacheMarkedRemoved > 0 {
		cmd.Printf("  cache entries marked removed: %d\n", report.CacheMarkedRemoved)
	}
	for _, docErr := range report.Errors {
		cmd.Printf("  error: %s: %s\n", docErr.Path, docErr.Err)
	}
}
