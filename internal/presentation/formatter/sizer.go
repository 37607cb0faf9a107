package formatter

import (
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-time-tracer/internal/util"
	"golang.org/x/term"
)

// TerminalWidth returns the width of the terminal behind f, or 0 when f is
// not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	util.LogDebugf("Terminal width %d", width)
	return width
}

// fitWidths shrinks the first column so the table is at most maxWidth wide.
// The first column never drops below minColumnWidth.
func fitWidths(widths []int, maxWidth int) []int {
	if maxWidth <= 0 {
		return widths
	}
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if over := total - maxWidth; over > 0 {
		widths[0] -= over
		if widths[0] < minColumnWidth {
			widths[0] = minColumnWidth
		}
	}
	return widths
}

// truncate cuts s to width display cells.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
