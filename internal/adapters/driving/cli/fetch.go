package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
)

var (
	fetchFeed string
	fetchFile string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download articles into the vault",
	Long: `Downloads each URL, converts the page to markdown with frontmatter
and saves it into the vault. URLs already tracked in the duplicate cache
are skipped. With --feed, entry links are taken from an RSS or Atom feed;
with --file, URLs are read one per line (blank lines and # comments are
ignored).`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFeed, "feed", "", "fetch the newest entries of a feed URL")
	fetchCmd.Flags().StringVar(&fetchFile, "file", "", "read URLs from a file, one per line")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetcher == nil {
		return errors.New("fetch service not configured")
	}
	if fetchFeed == "" && fetchFile == "" && len(args) == 0 {
		return errors.New("nothing to fetch: pass URLs, --feed or --file")
	}

	urls := args
	if fetchFile != "" {
		fromFile, err := readURLFile(fetchFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}

	var (
		report *driving.FetchReport
		err    error
	)
	if fetchFeed != "" {
		report, err = fetcher.FetchFeed(cmd.Context(), fetchFeed)
	} else {
		report, err = fetcher.Fetch(cmd.Context(), urls)
	}
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	for _, result := range report.Results {
		switch {
		case result.Err != "":
			cmd.Printf("  failed: %s: %s\n", result.URL, result.Err)
		case result.Skipped:
			cmd.Printf("  skipped (already saved): %s\n", result.URL)
		default:
			cmd.Printf("  saved: %s -> %s\n", result.URL, result.Filename)
		}
	}
	cmd.Printf("%d saved, %d skipped, %d failed\n", report.Saved, report.Skipped, report.Failed)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", report.Failed, len(report.Results))
	}
	return nil
}

// readURLFile reads URLs one per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
