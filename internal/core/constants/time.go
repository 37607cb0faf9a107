package constants

const (
	SecondsPerMinute = int64(60)
	SecondsPerHour   = int64(3600)
	SecondsPerDay    = int64(24 * 3600)
	MinutesPerDay    = 24 * 60
)

// MinActivitiesPerDay is the least number of raw events a normal day needs:
// the wake event plus one closing event.
const MinActivitiesPerDay = 2

// SourceExtension is the file extension of yearly source logs.
const SourceExtension = ".txt"
