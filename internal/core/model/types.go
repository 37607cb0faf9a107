package model

import (
	"strings"
	"time"
)

// RawEvent is one event line: the activity that ended at EndTime.
type RawEvent struct {
	EndTime     string // HH:MM
	Description string
	Remark      string
	LineNumber  int
}

// DailyLog holds one calendar day of source lines and everything derived from them.
type DailyLog struct {
	Date           time.Time
	Getup          string // HH:MM, or GetupContinuation
	GeneralRemarks []string
	RawEvents      []RawEvent
	IsContinuation bool
	EndsWithSleep  bool
	Activities     []Activity
	Stats          ActivityStats
	Source         string
	LineNumber     int
}

// DateString returns the canonical YYYY-MM-DD form of the day.
func (d *DailyLog) DateString() string {
	return d.Date.Format(DateLayout)
}

// Status reports 1 when the day contains any study time.
func (d *DailyLog) Status() int {
	if d.Stats.Study > 0 {
		return 1
	}
	return 0
}

// SleepFlag reports 1 when the day ends with a synthesized night sleep.
func (d *DailyLog) SleepFlag() int {
	if d.EndsWithSleep {
		return 1
	}
	return 0
}

// Remark joins the day's general remarks.
func (d *DailyLog) Remark() string {
	return strings.Join(d.GeneralRemarks, "\n")
}

// LastEnd returns the end instant of the last derived activity.
func (d *DailyLog) LastEnd() (int64, bool) {
	if len(d.Activities) == 0 {
		return 0, false
	}
	return d.Activities[len(d.Activities)-1].EndTimestamp, true
}

// Clone returns a copy of d whose slices can be changed without touching d.
func (d *DailyLog) Clone() *DailyLog {
	c := *d
	c.GeneralRemarks = append([]string(nil), d.GeneralRemarks...)
	c.RawEvents = append([]RawEvent(nil), d.RawEvents...)
	c.Activities = append([]Activity(nil), d.Activities...)
	return &c
}

// Activity is one normalized interval.
type Activity struct {
	LogicalID       int64  `json:"logical_id"`
	StartTimestamp  int64  `json:"start_timestamp"`
	EndTimestamp    int64  `json:"end_timestamp"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	ProjectPath     string `json:"project_path"`
	DurationSeconds int64  `json:"duration_seconds"`
	Remark          string `json:"remark,omitempty"`
}

// ProjectStat is one aggregated (project path, duration) pair as returned by storage.
type ProjectStat struct {
	Path     string
	Duration int64
}

// StatKey names one ActivityStats accumulator.
type StatKey string

const (
	StatSleepNight         StatKey = "sleep_night"
	StatSleepDay           StatKey = "sleep_day"
	StatSleepTotal         StatKey = "sleep_total"
	StatTotalExercise      StatKey = "total_exercise"
	StatCardio             StatKey = "cardio"
	StatAnaerobic          StatKey = "anaerobic"
	StatGrooming           StatKey = "grooming"
	StatToilet             StatKey = "toilet"
	StatGaming             StatKey = "gaming"
	StatRecreation         StatKey = "recreation"
	StatRecreationZhihu    StatKey = "recreation_zhihu"
	StatRecreationBilibili StatKey = "recreation_bilibili"
	StatRecreationDouyin   StatKey = "recreation_douyin"
	StatStudy              StatKey = "study"
)

// StatKeys lists every accumulator in display order.
var StatKeys = []StatKey{
	StatSleepNight, StatSleepDay, StatSleepTotal,
	StatTotalExercise, StatCardio, StatAnaerobic,
	StatGrooming, StatToilet,
	StatGaming, StatRecreation, StatRecreationZhihu, StatRecreationBilibili, StatRecreationDouyin,
	StatStudy,
}

// IsKnownStatKey reports whether key names an accumulator.
func IsKnownStatKey(key string) bool {
	for _, k := range StatKeys {
		if string(k) == key {
			return true
		}
	}
	return false
}

// ActivityStats accumulates seconds per category.
type ActivityStats struct {
	SleepNight         int64 `json:"sleep_night"`
	SleepDay           int64 `json:"sleep_day"`
	SleepTotal         int64 `json:"sleep_total"`
	TotalExercise      int64 `json:"total_exercise"`
	Cardio             int64 `json:"cardio"`
	Anaerobic          int64 `json:"anaerobic"`
	Grooming           int64 `json:"grooming"`
	Toilet             int64 `json:"toilet"`
	Gaming             int64 `json:"gaming"`
	Recreation         int64 `json:"recreation"`
	RecreationZhihu    int64 `json:"recreation_zhihu"`
	RecreationBilibili int64 `json:"recreation_bilibili"`
	RecreationDouyin   int64 `json:"recreation_douyin"`
	Study              int64 `json:"study"`
}

func (s *ActivityStats) field(key StatKey) *int64 {
	switch key {
	case StatSleepNight:
		return &s.SleepNight
	case StatSleepDay:
		return &s.SleepDay
	case StatSleepTotal:
		return &s.SleepTotal
	case StatTotalExercise:
		return &s.TotalExercise
	case StatCardio:
		return &s.Cardio
	case StatAnaerobic:
		return &s.Anaerobic
	case StatGrooming:
		return &s.Grooming
	case StatToilet:
		return &s.Toilet
	case StatGaming:
		return &s.Gaming
	case StatRecreation:
		return &s.Recreation
	case StatRecreationZhihu:
		return &s.RecreationZhihu
	case StatRecreationBilibili:
		return &s.RecreationBilibili
	case StatRecreationDouyin:
		return &s.RecreationDouyin
	case StatStudy:
		return &s.Study
	}
	return nil
}

// Add adds seconds to the accumulator named by key. Unknown keys are ignored.
func (s *ActivityStats) Add(key StatKey, seconds int64) {
	if f := s.field(key); f != nil {
		*f += seconds
	}
}

// Get returns the accumulator named by key.
func (s ActivityStats) Get(key StatKey) int64 {
	if f := s.field(key); f != nil {
		return *f
	}
	return 0
}

// Merge adds every accumulator of other into s.
func (s *ActivityStats) Merge(other ActivityStats) {
	for _, k := range StatKeys {
		s.Add(k, other.Get(k))
	}
}
