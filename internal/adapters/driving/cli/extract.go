package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
)

var (
	extractOutput    string
	extractFormat    string
	extractMaxChars  int
	extractNoContent bool
	extractStats     bool
	extractFolders   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Export compact metadata for unfiled articles",
	Long: `Exports title, source, author, published date and a short description
for every article at the vault root into one compact listing, so articles
can be categorized without reading them in full. Markdown goes to stdout
by default; --format and --output select JSON or YAML and a target file.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write to a file instead of stdout")
	extractCmd.Flags().StringVar(&extractFormat, "format", "markdown", "output format: markdown, json or yaml")
	extractCmd.Flags().IntVar(&extractMaxChars, "max-chars", 150, "description preview length")
	extractCmd.Flags().BoolVar(&extractNoContent, "no-content", false, "never fall back to a body preview")
	extractCmd.Flags().BoolVar(&extractStats, "include-stats", false, "add per-article word counts")
	extractCmd.Flags().BoolVar(&extractFolders, "folders", false, "list the vault's existing folders")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractor == nil {
		return errors.New("extract service not configured")
	}

	report, err := extractor.Extract(cmd.Context(), driving.ExtractOptions{
		MaxChars:       extractMaxChars,
		IncludeContent: !extractNoContent,
		IncludeStats:   extractStats,
		IncludeFolders: extractFolders,
	})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	var text string
	switch extractFormat {
	case "markdown":
		text = formatExtractMarkdown(report)
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		text = string(data) + "\n"
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		text = string(data)
	default:
		return fmt.Errorf("unknown format %q (markdown, json or yaml)", extractFormat)
	}

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", extractOutput, err)
		}
		cmd.Printf("Metadata written to %s\n", extractOutput)
		return nil
	}
	cmd.Print(text)
	return nil
}

func formatExtractMarkdown(report *driving.ExtractReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Articles Metadata\n# Generated: %s\n# Total: %d articles\n\n", report.Generated, report.Total)

	if len(report.Folders) > 0 {
		fmt.Fprintf(&b, "## Existing Folders\n%s\n\n", strings.Join(report.Folders, ", "))
	}

	if len(report.Articles) > 0 {
		fmt.Fprintf(&b, "## Articles (%d articles)\n\n", len(report.Articles))
		for _, meta := range report.Articles {
			fmt.Fprintf(&b, "%d. %s\n", meta.Index, meta.Filename)

			var parts []string
			if meta.Domain != "" {
				parts = append(parts, "URL: "+meta.Domain)
			}
			if meta.WordCount > 0 {
				parts = append(parts, fmt.Sprintf("%d words", meta.WordCount))
			}
			if len(parts) > 0 {
				fmt.Fprintf(&b, "   %s\n", strings.Join(parts, " | "))
			}

			if meta.Title != "" {
				fmt.Fprintf(&b, "   Title: %s\n", meta.Title)
			}
			if meta.Description != "" {
				fmt.Fprintf(&b, "   Desc: %s\n", meta.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "## Errors (%d files)\n\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s: %s\n", e.Filename, e.Err)
		}
	}
	return b.String()
}
