package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// DateCheckMode selects how missing dates are detected.
type DateCheckMode int

const (
	// DateCheckNone disables the check.
	DateCheckNone DateCheckMode = iota
	// DateCheckContinuity requires every day from the 1st up to the latest day seen in a month.
	DateCheckContinuity
	// DateCheckFull requires every day of each month that has any entry.
	DateCheckFull
)

func (m DateCheckMode) String() string {
	switch m {
	case DateCheckContinuity:
		return config.DateCheckContinuity
	case DateCheckFull:
		return config.DateCheckFull
	default:
		return config.DateCheckNone
	}
}

// ParseDateCheckMode maps a configuration value to a mode.
func ParseDateCheckMode(s string) (DateCheckMode, error) {
	switch s {
	case config.DateCheckNone, "":
		return DateCheckNone, nil
	case config.DateCheckContinuity:
		return DateCheckContinuity, nil
	case config.DateCheckFull:
		return DateCheckFull, nil
	}
	return DateCheckNone, fmt.Errorf("unknown date check mode %q", s)
}

type yearMonth struct {
	year  int
	month time.Month
}

// CheckDates reports one DateContinuity error per missing date, grouped by
// year and month.
func CheckDates(days []time.Time, mode DateCheckMode) []model.Error {
	if mode == DateCheckNone || len(days) == 0 {
		return nil
	}

	seen := make(map[yearMonth]map[int]struct{})
	for _, d := range days {
		ym := yearMonth{d.Year(), d.Month()}
		if seen[ym] == nil {
			seen[ym] = make(map[int]struct{})
		}
		seen[ym][d.Day()] = struct{}{}
	}

	months := make([]yearMonth, 0, len(seen))
	for ym := range seen {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year < months[j].year
		}
		return months[i].month < months[j].month
	})

	var errs []model.Error
	for _, ym := range months {
		present := seen[ym]
		last := util.DaysIn(ym.year, ym.month)
		if mode == DateCheckContinuity {
			last = 0
			for day := range present {
				if day > last {
					last = day
				}
			}
		}
		for day := 1; day <= last; day++ {
			if _, ok := present[day]; ok {
				continue
			}
			missing := time.Date(ym.year, ym.month, day, 0, 0, 0, 0, time.UTC)
			errs = append(errs, model.NewError(0, model.KindDateContinuity,
				"missing date %s (%s check)", missing.Format(model.DateLayout), mode))
		}
	}
	return errs
}

// CheckDays runs CheckDates over the dates of days and records the findings
// in errs under source.
func CheckDays(days []*model.DailyLog, mode DateCheckMode, source string, errs *model.ErrorSet) {
	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	for _, e := range CheckDates(dates, mode) {
		e.Source = source
		errs.Add(e)
	}
}
