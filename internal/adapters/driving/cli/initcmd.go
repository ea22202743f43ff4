package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault-cli/internal/core/services"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Scaffold a vault with default config and empty cache",
	Long: `Creates the .clipvault housekeeping folder with a default config
and an empty duplicate cache. Existing files are left alone, so init is
safe to re-run. Without a path the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	if err := services.NewInitializer().Init(cmd.Context(), path); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	cmd.Printf("Vault initialised at %s\n", path)
	return nil
}
