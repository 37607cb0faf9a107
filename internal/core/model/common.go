package model

// Date and clock layouts
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// Well-known project paths
const (
	PathSleepNight = "sleep_night"
	PathSleepDay   = "sleep_day"
	PathStudy      = "study"
)

// GetupContinuation is written as the getup time of days that continue the
// previous day's activity instead of starting with a wake event.
const GetupContinuation = "Null"

// DefaultPathSeparator splits a project path into its segments.
const DefaultPathSeparator = "_"
