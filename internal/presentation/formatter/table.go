package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// TableFormatter renders box-drawn terminal tables. Column widths are display
// widths, so CJK project names stay aligned.
type TableFormatter struct {
	statHeaders    []string
	projectHeaders []string
	maxWidth       int
}

const minColumnWidth = 8

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		statHeaders:    []string{"Category", "Total", "Daily Avg"},
		projectHeaders: []string{"Project", "Duration", "Share"},
	}
}

// SetMaxWidth limits the table width; names that do not fit are truncated.
// 0 means unlimited.
func (f *TableFormatter) SetMaxWidth(width int) {
	f.maxWidth = width
}

func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(r.Heading() + "\n")
	for _, line := range overview(r) {
		bw.WriteString(line + "\n")
	}
	if r.Empty() {
		return bw.Flush()
	}

	if lines := StatLines(r); len(lines) > 0 {
		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []string{l.Label, util.FormatDuration(l.Total), util.FormatDuration(l.Average)})
		}
		bw.WriteString("\n")
		f.writeTable(bw, f.statHeaders, rows)
	}

	if len(r.Breakdown) > 0 {
		rows := make([][]string, 0, len(r.Breakdown)+1)
		for _, b := range r.Breakdown {
			rows = append(rows, []string{
				util.Indent(b.Depth) + b.Name,
				util.FormatDuration(b.Duration),
				util.FormatPercentage(b.Percentage),
			})
		}
		rows = append(rows, []string{"Total", util.FormatDuration(r.Summary.Total), ""})
		bw.WriteString("\n")
		f.writeTable(bw, f.projectHeaders, rows)
	}
	return bw.Flush()
}

func (f *TableFormatter) writeTable(bw *bufio.Writer, headers []string, rows [][]string) {
	widths := fitWidths(calculateColumnWidths(headers, rows), f.maxWidth)
	for _, row := range rows {
		row[0] = truncate(row[0], widths[0])
	}

	printBorder(bw, widths, "top")
	printRow(bw, headers, widths)
	printBorder(bw, widths, "middle")
	for i, row := range rows {
		if i == len(rows)-1 && row[0] == "Total" {
			printBorder(bw, widths, "middle")
		}
		printRow(bw, row, widths)
	}
	printBorder(bw, widths, "bottom")
}

// calculateColumnWidths determines the display width of each column.
func calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, v := range row {
			if w := runewidth.StringWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Minimum width for readability
	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func printBorder(bw *bufio.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	bw.WriteString(left)
	for i, width := range widths {
		bw.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			bw.WriteString(middle)
		}
	}
	bw.WriteString(right + "\n")
}

// printRow left-aligns the first column and right-aligns the rest.
func printRow(bw *bufio.Writer, values []string, widths []int) {
	bw.WriteString("│")
	for i, value := range values {
		if i == 0 {
			bw.WriteString(" " + runewidth.FillRight(value, widths[i]) + " │")
		} else {
			bw.WriteString(" " + runewidth.FillLeft(value, widths[i]) + " │")
		}
	}
	bw.WriteString("\n")
}
