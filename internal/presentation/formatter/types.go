package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/data/aggregator"
)

// Output formats
const (
	FormatMarkdown = "md"
	FormatLaTeX    = "tex"
	FormatTypst    = "typ"
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

// Formats lists every supported output format.
var Formats = []string{FormatMarkdown, FormatLaTeX, FormatTypst, FormatTable, FormatJSON, FormatCSV}

// Report is everything a formatter renders for one period.
type Report struct {
	Title        string
	Label        string
	ExpectedDays int
	Summary      aggregator.Summary
	Breakdown    []aggregator.BreakdownRow
}

// NewReport summarizes days and builds their project breakdown with paths
// split on sep. expectedDays is the number of calendar days the period covers.
func NewReport(title, label string, days []*model.DailyLog, expectedDays int, sep string) *Report {
	summary := aggregator.Summarize(days)
	tree := aggregator.BuildProjectTree(aggregator.ProjectStats(days), sep)
	return &Report{
		Title:        title,
		Label:        label,
		ExpectedDays: expectedDays,
		Summary:      summary,
		Breakdown:    aggregator.Flatten(tree, tree.Total(), sep),
	}
}

// NewReportFromStats builds a report from stored days and stored project totals.
func NewReportFromStats(title, label string, days []*model.DailyLog, stats []model.ProjectStat, expectedDays int, sep string) *Report {
	tree := aggregator.BuildProjectTree(stats, sep)
	return &Report{
		Title:        title,
		Label:        label,
		ExpectedDays: expectedDays,
		Summary:      aggregator.Summarize(days),
		Breakdown:    aggregator.Flatten(tree, tree.Total(), sep),
	}
}

// Empty reports whether the period has no days.
func (r *Report) Empty() bool {
	return r.Summary.ActualDays == 0
}

// Heading returns the report title with its period label.
func (r *Report) Heading() string {
	if r.Label == "" {
		return r.Title
	}
	return r.Title + " " + r.Label
}

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// New returns the formatter for format.
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatMarkdown, "markdown":
		return NewMarkupFormatter(Markdown), nil
	case FormatLaTeX, "latex":
		return NewMarkupFormatter(LaTeX), nil
	case FormatTypst, "typst":
		return NewMarkupFormatter(Typst), nil
	case FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	}
	return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
