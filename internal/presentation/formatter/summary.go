package formatter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// StatLine is one non-zero accumulator of a report summary.
type StatLine struct {
	Key     model.StatKey
	Label   string
	Total   int64
	Average int64
}

// StatLines returns the non-zero accumulators of r in display order.
func StatLines(r *Report) []StatLine {
	var lines []StatLine
	for _, k := range model.StatKeys {
		v := r.Summary.Stats.Get(k)
		if v == 0 {
			continue
		}
		lines = append(lines, StatLine{
			Key:     k,
			Label:   statLabel(k),
			Total:   v,
			Average: r.Summary.AverageDaily(v),
		})
	}
	return lines
}

func statLabel(k model.StatKey) string {
	s := strings.ReplaceAll(string(k), "_", " ")
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// overview returns the period facts shown above the statistics.
func overview(r *Report) []string {
	days := fmt.Sprintf("Actual days: %d", r.Summary.ActualDays)
	if r.ExpectedDays > 0 {
		days = fmt.Sprintf("Actual days: %d / %d", r.Summary.ActualDays, r.ExpectedDays)
	}
	lines := []string{days}
	if r.Empty() {
		return lines
	}
	return append(lines,
		fmt.Sprintf("Recorded time: %s", util.FormatDuration(r.Summary.Total)),
		fmt.Sprintf("Activities: %d", r.Summary.Activities),
		fmt.Sprintf("Study days: %d", r.Summary.StudyDays),
	)
}
