package commands

import (
	"io"
	"os"

	"github.com/penwyp/go-time-tracer/internal/analyzer"
	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracer/internal/util"
	"github.com/spf13/cobra"
)

var (
	reportFormat   string
	reportOutput   string
	reportFromLogs []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render period reports from stored days",
	Long: `Renders the statistics and project breakdown of a period. Days are read from
the database unless --from-logs names source logs to analyze directly.

Formats: md (Markdown), tex (LaTeX), typ (Typst), table, json, csv.`,
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily <YYYY-MM-DD>",
	Short: "Report a single day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analyzer.DayPeriod(args[0], env.location)
		if err != nil {
			return err
		}
		return runReport(cmd, "Daily Report", p)
	},
}

var reportMonthlyCmd = &cobra.Command{
	Use:   "monthly <YYYY-MM>",
	Short: "Report a calendar month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analyzer.MonthPeriod(args[0], env.location)
		if err != nil {
			return err
		}
		return runReport(cmd, "Monthly Report", p)
	},
}

var reportRangeCmd = &cobra.Command{
	Use:   "range <from> <to>",
	Short: "Report an inclusive date range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analyzer.RangePeriod(args[0], args[1], env.location)
		if err != nil {
			return err
		}
		return runReport(cmd, "Range Report", p)
	},
}

var reportRecentCmd = &cobra.Command{
	Use:   "recent <lookback>",
	Short: "Report the days up to today (e.g., 7d, 2w, 1m, 1y)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analyzer.RecentPeriod(args[0], util.GetTimeProvider().Today())
		if err != nil {
			return err
		}
		return runReport(cmd, "Recent Report", p)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportDailyCmd, reportMonthlyCmd, reportRangeCmd, reportRecentCmd)

	reportCmd.PersistentFlags().StringVarP(&reportFormat, "format", "f", formatter.FormatMarkdown,
		"Output format (md, tex, typ, table, json, csv)")
	reportCmd.PersistentFlags().StringVarP(&reportOutput, "output", "o", "",
		"Output file (default stdout)")
	reportCmd.PersistentFlags().StringSliceVar(&reportFromLogs, "from-logs", nil,
		"Analyze these source logs instead of reading the database")
}

func runReport(cmd *cobra.Command, title string, p analyzer.Period) error {
	f, err := formatter.New(reportFormat)
	if err != nil {
		return err
	}

	var report *formatter.Report
	if len(reportFromLogs) > 0 {
		report, err = reportFromSources(cmd, title, p)
	} else {
		report, err = reportFromStore(cmd, title, p)
	}
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if tf, ok := f.(*formatter.TableFormatter); ok && reportOutput == "" {
		if out, ok := w.(*os.File); ok {
			tf.SetMaxWidth(formatter.TerminalWidth(out))
		}
	}
	if reportOutput != "" {
		out, err := os.Create(expandPath(reportOutput))
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	return f.Format(w, report)
}

func reportFromStore(cmd *cobra.Command, title string, p analyzer.Period) (*formatter.Report, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	days, err := store.GetDays(cmd.Context(), p.From, p.To)
	if err != nil {
		return nil, err
	}
	stats, err := store.GetAggregatedProjectStats(cmd.Context(), p.From, p.To)
	if err != nil {
		return nil, err
	}
	util.LogDebugf("Report %s: %d stored days, %d projects", p.Label, len(days), len(stats))
	return formatter.NewReportFromStats(title, p.Label, days, stats, p.Days(), env.cfg.Parser.PathSeparator), nil
}

func reportFromSources(cmd *cobra.Command, title string, p analyzer.Period) (*formatter.Report, error) {
	a, err := newAnalyzer(reportFromLogs)
	if err != nil {
		return nil, err
	}
	result, err := a.Run(cmd.Context())
	if err != nil {
		return nil, err
	}
	if !result.Errors.Empty() {
		util.LogWarnf("Report sources have %d validation errors", result.Errors.Len())
	}
	return formatter.NewReport(title, p.Label, result.Filter(p), p.Days(), env.cfg.Parser.PathSeparator), nil
}
