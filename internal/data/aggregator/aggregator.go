package aggregator

import (
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// Summary aggregates the days of a reporting period.
type Summary struct {
	From       time.Time
	To         time.Time
	ActualDays int
	StudyDays  int
	SleepDays  int
	Total      int64
	Activities int
	Stats      model.ActivityStats
}

// Summarize folds days into a period summary. From and To are the first and
// last dates present.
func Summarize(days []*model.DailyLog) Summary {
	var s Summary
	for _, d := range days {
		if s.ActualDays == 0 || d.Date.Before(s.From) {
			s.From = d.Date
		}
		if s.ActualDays == 0 || d.Date.After(s.To) {
			s.To = d.Date
		}
		s.ActualDays++
		s.StudyDays += d.Status()
		s.SleepDays += d.SleepFlag()
		s.Activities += len(d.Activities)
		s.Stats.Merge(d.Stats)
		for _, a := range d.Activities {
			s.Total += a.DurationSeconds
		}
	}
	return s
}

// AverageDaily returns the mean of seconds over the actual days.
func (s Summary) AverageDaily(seconds int64) int64 {
	if s.ActualDays == 0 {
		return 0
	}
	return seconds / int64(s.ActualDays)
}

// ProjectStats sums activity durations per project path in first-seen order.
func ProjectStats(days []*model.DailyLog) []model.ProjectStat {
	index := make(map[string]int)
	var out []model.ProjectStat
	for _, d := range days {
		for _, a := range d.Activities {
			i, ok := index[a.ProjectPath]
			if !ok {
				i = len(out)
				index[a.ProjectPath] = i
				out = append(out, model.ProjectStat{Path: a.ProjectPath})
			}
			out[i].Duration += a.DurationSeconds
		}
	}
	return out
}
