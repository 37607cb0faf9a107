package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-time-tracer/internal/analyzer"
	"github.com/penwyp/go-time-tracer/internal/data/watcher"
	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracer/internal/util"
	"github.com/spf13/cobra"
)

var watchIngest bool

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Re-validate source logs whenever they change",
	Long: `Validates every log below the given directories once, then watches them and
re-validates each changed .txt file. With --ingest the changed days are also
stored. Stops on Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchIngest, "ingest", false,
		"Store the days of changed files")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newAnalyzer(args)
	if err != nil {
		return err
	}
	if err := checkAndReport(ctx, cmd, a, args); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(args, a.Scanner().Match, watcher.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	go fw.Run(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d paths, press Ctrl+C to stop\n", len(args))
	for ev := range fw.Events() {
		util.LogDebugf("Changed files: %v", ev.Paths)
		if err := checkAndReport(ctx, cmd, a, ev.Paths); err != nil {
			util.LogErrorf("Re-validation failed: %v", err)
		}
	}
	return nil
}

func checkAndReport(ctx context.Context, cmd *cobra.Command, a *analyzer.Analyzer, paths []string) error {
	result, err := a.Analyze(ctx, paths...)
	if err != nil {
		return err
	}
	if err := formatter.ErrorReport(cmd.OutOrStdout(), result.Errors, len(result.Files), colorEnabled(cmd)); err != nil {
		return err
	}
	if !watchIngest {
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	saved, err := store.SaveDays(ctx, result.Days)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d days\n", saved)
	return nil
}
