package interval

import (
	"fmt"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// Window is the two-day view the deriver needs to close a day. CarryIn is the
// end instant of the previous day's last activity and is only meaningful when
// HasCarryIn is set.
type Window struct {
	Current    *model.DailyLog
	Next       *model.DailyLog
	CarryIn    int64
	HasCarryIn bool
}

// Deriver turns a day's raw events into contiguous activities.
type Deriver struct {
	mapper   *Mapper
	wake     map[string]struct{}
	location *time.Location
	ids      *IDSource
}

// NewDeriver creates a deriver. A nil location means time.Local and a nil
// id source starts numbering at 1.
func NewDeriver(cfg config.ParserConfig, loc *time.Location, ids *IDSource) *Deriver {
	if loc == nil {
		loc = time.Local
	}
	if ids == nil {
		ids = NewIDSource(1)
	}
	wake := make(map[string]struct{}, len(cfg.WakeKeywords))
	for _, k := range cfg.WakeKeywords {
		wake[k] = struct{}{}
	}
	return &Deriver{
		mapper:   NewMapper(cfg),
		wake:     wake,
		location: loc,
		ids:      ids,
	}
}

// IsWake reports whether desc is a wake keyword.
func (d *Deriver) IsWake(desc string) bool {
	_, ok := d.wake[desc]
	return ok
}

// Prepare sets IsContinuation and Getup from the day's first event. A day is a
// continuation when it has no events or its first event is not a wake
// keyword. Calling it again has no further effect.
func (d *Deriver) Prepare(day *model.DailyLog) {
	if len(day.RawEvents) == 0 {
		day.IsContinuation = true
		day.Getup = model.GetupContinuation
		return
	}
	first := day.RawEvents[0]
	if d.IsWake(first.Description) {
		day.IsContinuation = false
		day.Getup = first.EndTime
		return
	}
	day.IsContinuation = true
	day.Getup = model.GetupContinuation
}

// Derive fills w.Current.Activities and returns the carry-out instant for the
// next day. The carry-out is only reported when w.Next is a continuation day.
// Findings are recorded in errs, which may be nil.
func (d *Deriver) Derive(w Window, errs *model.ErrorSet) (carryOut int64, ok bool) {
	day := w.Current
	d.Prepare(day)
	day.Activities = day.Activities[:0]
	day.EndsWithSleep = false

	events := day.RawEvents
	if len(events) == 0 {
		return 0, false
	}

	var (
		cursor  int64
		prevMin int
		offset  int
		from    = 0
	)
	if day.IsContinuation {
		if w.HasCarryIn {
			cursor = w.CarryIn
		} else {
			cursor = d.instant(day.Date, 0, 0)
		}
	} else {
		m, err := util.ParseClock(events[0].EndTime)
		if err != nil {
			return 0, false
		}
		cursor = d.instant(day.Date, 0, m)
		prevMin = m
		from = 1
	}

	for _, ev := range events[from:] {
		m, err := util.ParseClock(ev.EndTime)
		if err != nil {
			continue
		}
		if m < prevMin {
			offset++
		}
		prevMin = m
		end := d.instant(day.Date, offset, m)
		duration := end - cursor
		if duration <= 0 {
			if errs != nil {
				errs.Addf(ev.LineNumber, model.KindTimeDiscontinuity,
					"%s: interval ending %s has non-positive length (%ds)", day.DateString(), ev.EndTime, duration)
			}
			if duration == 0 {
				cursor = end
			}
			continue
		}
		path := d.mapper.Map(ev.Description, duration)
		if d.IsWake(ev.Description) {
			path = model.PathSleepNight
		}
		day.Activities = append(day.Activities, d.activity(cursor, end, path, ev.Remark))
		cursor = end
	}

	next := w.Next
	if next == nil {
		return 0, false
	}
	d.Prepare(next)
	if next.IsContinuation {
		if len(next.RawEvents) == 0 {
			return 0, false
		}
		return cursor, true
	}
	d.closeNight(day, cursor, next, errs)
	return 0, false
}

// closeNight appends the night sleep running from cursor to next's getup.
func (d *Deriver) closeNight(day *model.DailyLog, cursor int64, next *model.DailyLog, errs *model.ErrorSet) bool {
	getup, err := util.ParseClock(next.Getup)
	if err != nil {
		return false
	}
	sleepEnd := d.instant(next.Date, 0, getup)
	if sleepEnd <= cursor {
		if errs != nil {
			errs.Add(model.Error{
				Source:     next.Source,
				LineNumber: next.LineNumber,
				Kind:       model.KindTimeDiscontinuity,
				Message:    fmt.Sprintf("%s: getup %s is not after the previous day's last event", next.DateString(), next.Getup),
			})
		}
		return false
	}
	day.Activities = append(day.Activities, d.activity(cursor, sleepEnd, model.PathSleepNight, ""))
	day.EndsWithSleep = true
	return true
}

// Stitch joins days that come from different sources and follow each other
// on the calendar, the way DeriveAll joins days of one source: either the
// earlier day gets its night sleep or the continuation days after the
// boundary are derived again with the carried end instant. days must be
// sorted by date. Changed days are replaced in days by copies, so the
// originals are never modified, and returned.
func (d *Deriver) Stitch(days []*model.DailyLog, errs *model.ErrorSet) []*model.DailyLog {
	var changed []*model.DailyLog
	for i := 0; i+1 < len(days); i++ {
		prev, next := days[i], days[i+1]
		if prev.Source == next.Source || prev.EndsWithSleep || !d.adjacent(prev, next) {
			continue
		}
		cursor, ok := prev.LastEnd()
		if !ok {
			continue
		}

		d.Prepare(next)
		if len(next.RawEvents) == 0 {
			continue
		}
		if !next.IsContinuation {
			joined := prev.Clone()
			if d.closeNight(joined, cursor, next, errs) {
				days[i] = joined
				changed = append(changed, joined)
			}
			continue
		}

		carry, hasCarry := cursor, true
		for j := i + 1; hasCarry && j < len(days) && days[j].Source == next.Source; j++ {
			cur := days[j].Clone()
			days[j] = cur
			w := Window{Current: cur, CarryIn: carry, HasCarryIn: true}
			if j+1 < len(days) && days[j+1].Source == cur.Source {
				w.Next = days[j+1]
			}
			dayErrs := model.NewErrorSet(cur.Source)
			carry, hasCarry = d.Derive(w, dayErrs)
			if errs != nil {
				errs.Merge(dayErrs)
			}
			changed = append(changed, cur)
		}
	}
	return changed
}

// adjacent reports whether next is the calendar day after prev.
func (d *Deriver) adjacent(prev, next *model.DailyLog) bool {
	y, m, dd := prev.Date.Date()
	return time.Date(y, m, dd+1, 0, 0, 0, 0, d.location).Format(model.DateLayout) == next.DateString()
}

// DeriveAll runs Derive over consecutive days of one source file.
func (d *Deriver) DeriveAll(days []*model.DailyLog, errs *model.ErrorSet) {
	var (
		carry    int64
		hasCarry bool
	)
	for i, day := range days {
		w := Window{Current: day, CarryIn: carry, HasCarryIn: hasCarry}
		if i+1 < len(days) {
			w.Next = days[i+1]
		}
		carry, hasCarry = d.Derive(w, errs)
	}
}

func (d *Deriver) activity(start, end int64, path, remark string) model.Activity {
	return model.Activity{
		LogicalID:       d.ids.Next(),
		StartTimestamp:  start,
		EndTimestamp:    end,
		StartTime:       time.Unix(start, 0).In(d.location).Format(model.ClockLayout),
		EndTime:         time.Unix(end, 0).In(d.location).Format(model.ClockLayout),
		ProjectPath:     path,
		DurationSeconds: end - start,
		Remark:          remark,
	}
}

func (d *Deriver) instant(date time.Time, dayOffset, minutes int) int64 {
	return time.Date(date.Year(), date.Month(), date.Day()+dayOffset, minutes/60, minutes%60, 0, 0, d.location).Unix()
}
