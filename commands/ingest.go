package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracer/internal/util"
	"github.com/spf13/cobra"
)

var ingestStrict bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Parse source logs and store the days in SQLite",
	Long: `Parses and validates the given logs and replaces the stored copy of every
converted day. Days are stored even when errors were found, unless --strict
is set, in which case every file with errors is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false,
		"Skip files that have any validation error")
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(args)
	if err != nil {
		return err
	}
	result, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	days := result.StorableDays(ingestStrict)
	saved, err := store.SaveDays(cmd.Context(), days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Errors.Empty() {
		if err := formatter.ErrorReport(out, result.Errors, len(result.Files), colorEnabled(cmd)); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Files: %d total, %d succeeded, %d failed, %d from cache\n",
		len(result.Files), result.Succeeded, result.Failed, result.CacheHits)
	fmt.Fprintf(out, "Stored %d days (%d skipped) in %v\n", saved, len(result.Days)-len(days), result.Duration.Round(time.Millisecond))
	util.LogInfof("Ingested %d days into %s", saved, env.cfg.Storage.Path)
	return nil
}
