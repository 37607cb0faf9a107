package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVFormatter writes the project breakdown, one row per tree node.
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	headers := []string{"Depth", "Path", "Name", "Duration Seconds", "Hours", "Percentage"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, b := range r.Breakdown {
		record := []string{
			strconv.Itoa(b.Depth),
			b.Path,
			b.Name,
			strconv.FormatInt(b.Duration, 10),
			strconv.FormatFloat(float64(b.Duration)/3600, 'f', 2, 64),
			strconv.FormatFloat(b.Percentage, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
