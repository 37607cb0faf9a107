package commands

import (
	"io"
	"os"

	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracer/internal/util"
	"github.com/spf13/cobra"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <path>...",
	Short: "Convert source logs to structured JSON day records",
	Long: `Parses the given logs and writes one JSON record per day, including derived
activities and statistics. Conversion is best effort: errors are reported on
stderr and the days that could be built are still written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"Output file (default stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(args)
	if err != nil {
		return err
	}
	result, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !result.Errors.Empty() {
		if err := formatter.ErrorReport(cmd.ErrOrStderr(), result.Errors, len(result.Files), false); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if convertOutput != "" {
		path := expandPath(convertOutput)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := formatter.WriteDayRecords(w, result.Days, env.cfg.Parser.PathSeparator); err != nil {
		return err
	}
	util.LogInfof("Converted %d days from %d files", len(result.Days), len(result.Files))
	return nil
}
