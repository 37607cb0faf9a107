package commands

import (
	"fmt"

	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Check source logs and print an error report",
	Long: `Scans the given files and directories for .txt logs, parses them and runs
every structural, logic and date continuity check. Exits non-zero when any
error is found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(args)
	if err != nil {
		return err
	}
	result, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := formatter.ErrorReport(cmd.OutOrStdout(), result.Errors, len(result.Files), colorEnabled(cmd)); err != nil {
		return err
	}
	if !result.Errors.Empty() {
		return fmt.Errorf("%w: %d errors", ErrValidationFailed, result.Errors.Len())
	}
	return nil
}
