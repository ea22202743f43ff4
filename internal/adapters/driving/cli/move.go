package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var moveDryRun bool

var moveCmd = &cobra.Command{
	Use:   "move <plan-file>",
	Short: "Execute a categorization plan",
	Long: `Reads a numbered plan of "category - filename" lines and moves each
file into its category folder. The category TRASH sends a file to the
vault trash instead. Categories that look like typos of existing folders
are flagged before anything moves.`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "report moves without touching anything")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	if mover == nil {
		return errors.New("move service not configured")
	}

	report, err := mover.Move(cmd.Context(), args[0], moveDryRun)
	if err != nil {
		return fmt.Errorf("move failed: %w", err)
	}

	for _, warning := range report.Warnings {
		cmd.Printf("  warning: %s\n", warning)
	}
	for _, moveErr := range report.Errors {
		cmd.Printf("  error: %s: %s\n", moveErr.Path, moveErr.Err)
	}
	cmd.Printf("%d moved, %d trashed, %d skipped\n", report.Moved, report.Trashed, report.Skipped)
	return nil
}
