package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
)

var duplicatesJSON bool

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Find duplicate articles by URL, content and filename",
	RunE:  runDuplicates,
}

func init() {
	duplicatesCmd.Flags().BoolVar(&duplicatesJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	if duplicateFinder == nil {
		return errors.New("duplicates service not configured")
	}

	report, err := duplicateFinder.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	if duplicatesJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Scanned %d documents\n", report.ScannedFiles)
	if report.Empty() {
		cmd.Println("No duplicates found.")
		return nil
	}

	printGroups(cmd, "By source URL", report.ByURL)
	printGroups(cmd, "By content hash", report.ByHash)
	printGroups(cmd, "By filename", report.ByFilename)
	return nil
}

func printGroups(cmd *cobra.Command, heading string, groups []driving.DuplicateGroup) {
	if len(groups) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", heading)
	for _, group := range groups {
		cmd.Printf("  %s\n    %s\n", group.Key, strings.Join(group.Files, "\n    "))
	}
}
