package formatter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ErrorReport writes errs grouped by source file. color enables ANSI colors.
func ErrorReport(w io.Writer, errs *model.ErrorSet, files int, color bool) error {
	bw := bufio.NewWriter(w)

	if errs.Empty() {
		fmt.Fprintln(bw, util.FormatSuccess(fmt.Sprintf("No errors found in %d files", files), color))
		return bw.Flush()
	}

	sources, groups := errs.BySource()
	fmt.Fprintln(bw, util.FormatErrorTitle(
		fmt.Sprintf("Found %d errors in %d of %d files", errs.Len(), len(sources), files), color))
	for _, src := range sources {
		fmt.Fprintf(bw, "\n%s (%d)\n", util.FormatHeaderTitle(src, color), len(groups[src]))
		for _, e := range groups[src] {
			kind := util.Colorize("["+e.Kind.String()+"]", util.ColorYellow, color)
			if e.LineNumber > 0 {
				fmt.Fprintf(bw, "  line %d %s %s\n", e.LineNumber, kind, e.Message)
			} else {
				fmt.Fprintf(bw, "  %s %s\n", kind, e.Message)
			}
		}
	}
	return bw.Flush()
}
