package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-folder article counts",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsProvider == nil {
		return errors.New("stats service not configured")
	}

	report, err := statsProvider.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	for _, folder := range report.Folders {
		line := fmt.Sprintf("  %-30s %4d", folder.Folder, folder.Count)
		if folder.Warning != "" {
			line += "  (" + folder.Warning + ")"
		}
		cmd.Println(line)
	}
	cmd.Printf("%d articles in %d folders\n", report.Total, len(report.Folders))
	return nil
}
