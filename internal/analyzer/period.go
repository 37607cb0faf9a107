package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// Period is an inclusive range of calendar days.
type Period struct {
	From  time.Time
	To    time.Time
	Label string
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours()/24+0.5) + 1
}

// DayPeriod parses "YYYY-MM-DD".
func DayPeriod(s string, loc *time.Location) (Period, error) {
	d, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", model.ErrInvalidDate, s)
	}
	return Period{From: d, To: d, Label: d.Format(model.DateLayout)}, nil
}

// MonthPeriod parses "YYYY-MM" into the whole month.
func MonthPeriod(s string, loc *time.Location) (Period, error) {
	m, err := time.ParseInLocation(model.MonthLayout, s, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q (want YYYY-MM)", model.ErrInvalidDate, s)
	}
	return Period{From: m, To: m.AddDate(0, 1, -1), Label: m.Format(model.MonthLayout)}, nil
}

// RangePeriod parses two "YYYY-MM-DD" bounds.
func RangePeriod(from, to string, loc *time.Location) (Period, error) {
	f, err := DayPeriod(from, loc)
	if err != nil {
		return Period{}, err
	}
	t, err := DayPeriod(to, loc)
	if err != nil {
		return Period{}, err
	}
	if t.From.Before(f.From) {
		return Period{}, fmt.Errorf("range end %s is before start %s", to, from)
	}
	return Period{From: f.From, To: t.From, Label: f.Label + " ~ " + t.Label}, nil
}

var (
	lookbackFormatRe = regexp.MustCompile(`^(?:\d+[dwmy])+$`)
	lookbackRe       = regexp.MustCompile(`(\d+)([dwmy])`)
)

// RecentPeriod parses a lookback such as "7d", "2w", "1m" or "1y1m" ending
// today. Months count as 30 days and years as 365.
func RecentPeriod(lookback string, today time.Time) (Period, error) {
	if !lookbackFormatRe.MatchString(lookback) {
		return Period{}, fmt.Errorf("invalid lookback format: %s", lookback)
	}
	matches := lookbackRe.FindAllStringSubmatch(lookback, -1)
	if len(matches) == 0 {
		return Period{}, fmt.Errorf("invalid lookback format: %s", lookback)
	}

	days := 0
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return Period{}, fmt.Errorf("invalid number in lookback: %s", match[1])
		}
		switch match[2] {
		case "d":
			days += value
		case "w":
			days += value * 7
		case "m":
			days += value * 30
		case "y":
			days += value * 365
		}
	}
	if days == 0 {
		return Period{}, fmt.Errorf("lookback %s covers no days", lookback)
	}

	from := today.AddDate(0, 0, -(days - 1))
	return Period{From: from, To: today, Label: "last " + lookback}, nil
}
