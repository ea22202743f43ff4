package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that config, vault and cache are usable",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validator == nil {
		return errors.New("validate service not configured")
	}

	report, err := validator.Validate(cmd.Context())
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	for _, check := range report.Checks {
		mark := "ok"
		if !check.OK {
			mark = "FAIL"
		}
		cmd.Printf("  [%s] %-12s %s\n", mark, check.Name, check.Detail)
	}

	if !report.OK() {
		return errors.New("validation failed")
	}
	cmd.Println("All checks passed.")
	return nil
}
