package model

import "strings"

// DayRecord is the structured form of a finalized day, as written by convert
// and read back into storage.
type DayRecord struct {
	Date       string           `json:"date"`
	Status     int              `json:"status"`
	Sleep      int              `json:"sleep"`
	Getup      string           `json:"getup"`
	Remark     string           `json:"remark"`
	Stats      ActivityStats    `json:"stats"`
	Activities []ActivityRecord `json:"activities"`
}

// ActivityRecord is an Activity with its path split into parents.
type ActivityRecord struct {
	Activity
	TopParent string   `json:"top_parent"`
	Parents   []string `json:"parents"`
}

// NewDayRecord maps a finalized day to its structured output. sep splits
// project paths into parents; empty means DefaultPathSeparator.
func NewDayRecord(d *DailyLog, sep string) DayRecord {
	if sep == "" {
		sep = DefaultPathSeparator
	}
	rec := DayRecord{
		Date:       d.DateString(),
		Status:     d.Status(),
		Sleep:      d.SleepFlag(),
		Getup:      d.Getup,
		Remark:     d.Remark(),
		Stats:      d.Stats,
		Activities: make([]ActivityRecord, 0, len(d.Activities)),
	}
	for _, a := range d.Activities {
		parents := SplitPath(a.ProjectPath, sep)
		rec.Activities = append(rec.Activities, ActivityRecord{
			Activity:  a,
			TopParent: parents[0],
			Parents:   parents,
		})
	}
	return rec
}

// SplitPath splits a project path into its non-empty segments. An empty path
// yields a single empty segment.
func SplitPath(path, sep string) []string {
	if sep == "" {
		return []string{path}
	}
	parts := strings.Split(path, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{path}
	}
	return out
}
