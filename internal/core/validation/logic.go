package validation

import (
	"github.com/penwyp/go-time-tracer/internal/core/constants"
	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// CheckLogic validates derived days and records findings in errs: gaps between
// consecutive activities, night sleep flags without a trailing sleep_night
// activity, and days with too few events.
func CheckLogic(days []*model.DailyLog, errs *model.ErrorSet) {
	for _, d := range days {
		checkDay(d, errs)
	}
}

func checkDay(d *model.DailyLog, errs *model.ErrorSet) {
	date := d.DateString()
	add := func(kind model.ErrorKind, format string, args ...interface{}) {
		e := model.NewError(d.LineNumber, kind, format, args...)
		e.Source = d.Source
		errs.Add(e)
	}

	for i := 1; i < len(d.Activities); i++ {
		prev, cur := d.Activities[i-1], d.Activities[i]
		if prev.EndTimestamp != cur.StartTimestamp {
			add(model.KindTimeDiscontinuity, "%s: gap between %s and %s", date, prev.EndTime, cur.StartTime)
		}
	}

	if d.EndsWithSleep {
		n := len(d.Activities)
		if n == 0 || d.Activities[n-1].ProjectPath != model.PathSleepNight {
			add(model.KindMissingSleepNight, "%s: day is flagged as ending with sleep but has no trailing %s", date, model.PathSleepNight)
		}
	}

	need := constants.MinActivitiesPerDay
	if d.IsContinuation {
		need = 1
	}
	if len(d.RawEvents) < need {
		add(model.KindTooFewActivities, "%s: %d event(s), need at least %d", date, len(d.RawEvents), need)
	}
}
