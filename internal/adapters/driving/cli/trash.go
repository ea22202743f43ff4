package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash <paths or globs...>",
	Short: "Move documents to the vault trash",
	Long: `Moves the given documents into the vault trash folder and marks
their cache entries as removed, so a later fetch of the same URL is
still recognised as a duplicate. Arguments may be exact relative paths
or glob patterns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrash,
}

func init() {
	rootCmd.AddCommand(trashCmd)
}

func runTrash(cmd *cobra.Command, args []string) error {
	if trasher == nil {
		return errors.New("trash service not configured")
	}

	report, err := trasher.Trash(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("trash failed: %w", err)
	}

	for _, path := range report.Trashed {
		cmd.Printf("  trashed: %s\n", path)
	}
	for _, trashErr := range report.Errors {
		cmd.Printf("  error: %s: %s\n", trashErr.Path, trashErr.Err)
	}
	cmd.Printf("%d trashed, %d cache entries marked removed\n", len(report.Trashed), report.Marked)

	if len(report.Errors) > 0 {
		return fmt.Errorf("%d arguments failed", len(report.Errors))
	}
	return nil
}
