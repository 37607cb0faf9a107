package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-time-tracer/internal/core/model"
)

type jsonReport struct {
	Title        string              `json:"title"`
	Period       string              `json:"period"`
	From         string              `json:"from,omitempty"`
	To           string              `json:"to,omitempty"`
	ActualDays   int                 `json:"actual_days"`
	ExpectedDays int                 `json:"expected_days,omitempty"`
	StudyDays    int                 `json:"study_days"`
	TotalSeconds int64               `json:"total_seconds"`
	Activities   int                 `json:"activities"`
	Stats        model.ActivityStats `json:"stats"`
	Breakdown    []jsonBreakdownRow  `json:"breakdown"`
}

type jsonBreakdownRow struct {
	Depth           int     `json:"depth"`
	Name            string  `json:"name"`
	Path            string  `json:"path"`
	DurationSeconds int64   `json:"duration_seconds"`
	Percentage      float64 `json:"percentage"`
	Leaf            bool    `json:"leaf"`
}

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	out := jsonReport{
		Title:        r.Title,
		Period:       r.Label,
		ActualDays:   r.Summary.ActualDays,
		ExpectedDays: r.ExpectedDays,
		StudyDays:    r.Summary.StudyDays,
		TotalSeconds: r.Summary.Total,
		Activities:   r.Summary.Activities,
		Stats:        r.Summary.Stats,
		Breakdown:    make([]jsonBreakdownRow, 0, len(r.Breakdown)),
	}
	if !r.Empty() {
		out.From = r.Summary.From.Format(model.DateLayout)
		out.To = r.Summary.To.Format(model.DateLayout)
	}
	for _, b := range r.Breakdown {
		out.Breakdown = append(out.Breakdown, jsonBreakdownRow{
			Depth:           b.Depth,
			Name:            b.Name,
			Path:            b.Path,
			DurationSeconds: b.Duration,
			Percentage:      b.Percentage,
			Leaf:            b.Leaf,
		})
	}
	return writeJSON(w, out)
}

// WriteDayRecords writes days as an indented DayRecord array, splitting
// project paths on sep.
func WriteDayRecords(w io.Writer, days []*model.DailyLog, sep string) error {
	records := make([]model.DayRecord, 0, len(days))
	for _, d := range days {
		records = append(records, model.NewDayRecord(d, sep))
	}
	return writeJSON(w, records)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
