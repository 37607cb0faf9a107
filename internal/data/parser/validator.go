package parser

import (
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// Validator tracks block ordering across the lines of one file. It records
// every violation in its error set and never stops the scan.
type Validator struct {
	errs     *model.ErrorSet
	keywords map[string]struct{}
	wake     map[string]struct{}

	yearSeen bool
	year     int
	dateSeen bool
	lastDate time.Time
	days     int
	sawEvent bool
}

// NewValidator creates a validator recording into errs.
func NewValidator(errs *model.ErrorSet, keywords map[string]struct{}, wakeKeywords []string) *Validator {
	wake := make(map[string]struct{}, len(wakeKeywords))
	for _, k := range wakeKeywords {
		wake[k] = struct{}{}
	}
	return &Validator{errs: errs, keywords: keywords, wake: wake}
}

// Year returns the year of the current block.
func (v *Validator) Year() (int, bool) {
	return v.year, v.yearSeen
}

// ProcessYear accepts the first year, a repeated year or the following year.
// Any other value is an error, and the new value is used from here on.
func (v *Validator) ProcessYear(line, year int) {
	if v.yearSeen && year != v.year && year != v.year+1 {
		v.errs.Addf(line, model.KindStructural, "year %d does not follow %d", year, v.year)
	}
	if !v.yearSeen || year != v.year {
		v.lastDate = time.Time{}
	}
	v.yearSeen = true
	v.year = year
	v.dateSeen = false
	v.sawEvent = false
}

// ProcessDate starts a new day block. A zero date means the line did not
// parse; the block still starts, so its events are not misreported.
func (v *Validator) ProcessDate(line int, date time.Time) {
	if !v.yearSeen {
		v.errs.Addf(line, model.KindStructural, "date line before any year line")
	}
	v.dateSeen = true
	v.sawEvent = false
	v.days++
	if date.IsZero() {
		return
	}
	if !v.lastDate.IsZero() && !date.After(v.lastDate) {
		v.errs.Addf(line, model.KindStructural, "date %s out of order (after %s)",
			date.Format(model.DateLayout), v.lastDate.Format(model.DateLayout))
	}
	v.lastDate = date
}

// ProcessRemark checks that a remark belongs to a day and precedes its events.
func (v *Validator) ProcessRemark(line int) {
	if !v.dateSeen {
		v.errs.Addf(line, model.KindStructural, "remark before any date line")
		return
	}
	if v.sawEvent {
		v.errs.Addf(line, model.KindRemarkAfterEvent, "remark must precede the first event of the day")
	}
}

// ProcessEvent checks that an event belongs to a day and uses a known
// keyword. The first event of a file must be a wake keyword since that day
// cannot continue an earlier one.
func (v *Validator) ProcessEvent(line int, ev model.RawEvent) {
	if !v.dateSeen {
		v.errs.Addf(line, model.KindStructural, "event before any date line")
	}
	first := !v.sawEvent
	v.sawEvent = true

	if _, ok := v.keywords[ev.Description]; !ok {
		v.errs.Addf(line, model.KindLineFormat, "unknown activity %q", ev.Description)
		return
	}
	if first && v.days == 1 {
		if _, ok := v.wake[ev.Description]; !ok {
			v.errs.Addf(line, model.KindLineFormat, "first event of the file must be a wake keyword, got %q", ev.Description)
		}
	}
}

// MarkEvent notes an event line whose content did not parse, so later remarks
// of the day are still checked against it.
func (v *Validator) MarkEvent() {
	v.sawEvent = true
}

// InvalidLine records a line that matched no grammar rule.
func (v *Validator) InvalidLine(line int, text string) {
	v.errs.Addf(line, model.KindInvalidLineFormat, "unrecognized line %q", text)
}

// LineFormat records a classifiable line whose content is malformed.
func (v *Validator) LineFormat(line int, err error) {
	v.errs.Addf(line, model.KindLineFormat, "%v", err)
}
