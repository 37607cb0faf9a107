package interval

import (
	"testing"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParserConfig() config.ParserConfig {
	return config.DefaultConfig().Parser
}

func day(date string, events ...model.RawEvent) *model.DailyLog {
	d, err := time.ParseInLocation(model.DateLayout, date, time.UTC)
	if err != nil {
		panic(err)
	}
	for i := range events {
		events[i].LineNumber = i + 2
	}
	return &model.DailyLog{Date: d, RawEvents: events, Source: "2025.txt", LineNumber: 1}
}

func ev(clock, desc string) model.RawEvent {
	return model.RawEvent{EndTime: clock, Description: desc}
}

func TestMapperDurationThreshold(t *testing.T) {
	m := NewMapper(testParserConfig())

	tests := []struct {
		name     string
		desc     string
		seconds  int64
		expected string
	}{
		{name: "quick toilet", desc: "toilet", seconds: 7 * 60, expected: "routine_toilet_quick"},
		{name: "threshold is exclusive", desc: "toilet", seconds: 10 * 60, expected: "routine_toilet"},
		{name: "long toilet falls through", desc: "toilet", seconds: 15 * 60, expected: "routine_toilet"},
		{name: "text mapping", desc: "breakfast", seconds: 1800, expected: "meal_breakfast"},
		{name: "unmapped keeps description", desc: "study_math", seconds: 60, expected: "study_math"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Map(tt.desc, tt.seconds))
		})
	}
}

func TestIDSource(t *testing.T) {
	ids := NewIDSource(5)
	assert.Equal(t, int64(5), ids.Next())
	assert.Equal(t, int64(6), ids.Next())
}

func TestDeriveSleepSynthesis(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	first := day("2025-01-01", ev("07:00", "wake"), ev("08:30", "breakfast"), ev("23:10", "study_math"))
	second := day("2025-01-02", ev("07:00", "wake"), ev("08:00", "breakfast"))
	errs := model.NewErrorSet("2025.txt")

	d.DeriveAll([]*model.DailyLog{first, second}, errs)

	require.Len(t, first.Activities, 3)
	assert.True(t, errs.Empty())
	assert.Equal(t, "07:00", first.Getup)
	assert.False(t, first.IsContinuation)

	breakfast := first.Activities[0]
	assert.Equal(t, "meal_breakfast", breakfast.ProjectPath)
	assert.Equal(t, "07:00", breakfast.StartTime)
	assert.Equal(t, "08:30", breakfast.EndTime)
	assert.Equal(t, int64(5400), breakfast.DurationSeconds)

	sleep := first.Activities[2]
	assert.Equal(t, model.PathSleepNight, sleep.ProjectPath)
	assert.Equal(t, int64(28200), sleep.DurationSeconds)
	assert.Equal(t, "23:10", sleep.StartTime)
	assert.Equal(t, "07:00", sleep.EndTime)
	assert.True(t, first.EndsWithSleep)
	assert.Equal(t, 1, first.SleepFlag())

	// last day of the file never gets a synthesized sleep
	require.Len(t, second.Activities, 1)
	assert.False(t, second.EndsWithSleep)
}

func TestDeriveActivitiesAreContiguous(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	first := day("2025-01-01", ev("07:00", "wake"), ev("07:07", "toilet"), ev("12:00", "work"), ev("22:00", "game"))
	second := day("2025-01-02", ev("06:30", "wake"), ev("07:00", "run"))

	d.DeriveAll([]*model.DailyLog{first, second}, nil)

	acts := first.Activities
	require.Len(t, acts, 4)
	assert.Equal(t, "routine_toilet_quick", acts[0].ProjectPath)
	for i := range acts {
		assert.Equal(t, acts[i].EndTimestamp-acts[i].StartTimestamp, acts[i].DurationSeconds)
		assert.Positive(t, acts[i].DurationSeconds)
		if i > 0 {
			assert.Equal(t, acts[i-1].EndTimestamp, acts[i].StartTimestamp)
			assert.Greater(t, acts[i].LogicalID, acts[i-1].LogicalID)
		}
	}
}

func TestDeriveContinuationStitching(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	first := day("2025-01-01", ev("07:00", "wake"), ev("23:30", "work"))
	second := day("2025-01-02", ev("01:30", "work"), ev("01:35", "toilet"))
	third := day("2025-01-03", ev("08:35", "wake"), ev("10:00", "breakfast"))

	d.DeriveAll([]*model.DailyLog{first, second, third}, nil)

	assert.False(t, first.EndsWithSleep, "no sleep before a continuation day")
	require.Len(t, first.Activities, 1)

	assert.True(t, second.IsContinuation)
	assert.Equal(t, model.GetupContinuation, second.Getup)
	require.Len(t, second.Activities, 3)
	assert.Equal(t, first.Activities[0].EndTimestamp, second.Activities[0].StartTimestamp)
	assert.Equal(t, int64(2*3600), second.Activities[0].DurationSeconds)
	assert.Equal(t, "routine_toilet_quick", second.Activities[1].ProjectPath)

	sleep := second.Activities[2]
	assert.Equal(t, model.PathSleepNight, sleep.ProjectPath)
	assert.Equal(t, int64(7*3600), sleep.DurationSeconds)
	assert.True(t, second.EndsWithSleep)
}

func TestDeriveContinuationWithoutCarryStartsAtMidnight(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	only := day("2025-01-05", ev("01:00", "work"))

	d.DeriveAll([]*model.DailyLog{only}, nil)

	require.Len(t, only.Activities, 1)
	assert.Equal(t, "00:00", only.Activities[0].StartTime)
	assert.Equal(t, int64(3600), only.Activities[0].DurationSeconds)
}

func TestDeriveMidnightWrap(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	first := day("2025-01-01", ev("07:00", "wake"), ev("23:00", "work"), ev("01:00", "game"))
	second := day("2025-01-02", ev("08:00", "wake"), ev("09:00", "breakfast"))

	d.DeriveAll([]*model.DailyLog{first, second}, nil)

	require.Len(t, first.Activities, 3)
	game := first.Activities[1]
	assert.Equal(t, int64(2*3600), game.DurationSeconds)
	assert.Equal(t, "01:00", game.EndTime)
	assert.Equal(t, int64(7*3600), first.Activities[2].DurationSeconds)
}

func TestDeriveZeroLengthIntervalIsDropped(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	only := day("2025-01-01", ev("07:00", "wake"), ev("08:00", "breakfast"), ev("08:00", "toilet"), ev("09:00", "work"))
	errs := model.NewErrorSet("2025.txt")

	d.DeriveAll([]*model.DailyLog{only}, errs)

	require.Len(t, only.Activities, 2)
	assert.Equal(t, 1, errs.Count(model.KindTimeDiscontinuity))
	assert.Equal(t, only.Activities[0].EndTimestamp, only.Activities[1].StartTimestamp)
}

func TestDeriveIsRepeatable(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, NewIDSource(1))
	only := day("2025-01-01", ev("07:00", "wake"), ev("08:00", "breakfast"))

	d.Derive(Window{Current: only}, nil)
	d.Derive(Window{Current: only}, nil)

	assert.Len(t, only.Activities, 1)
}

func TestDeriveEmptyDay(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	empty := day("2025-01-01")

	carry, ok := d.Derive(Window{Current: empty}, nil)

	assert.False(t, ok)
	assert.Zero(t, carry)
	assert.Empty(t, empty.Activities)
	assert.Equal(t, model.GetupContinuation, empty.Getup)
	assert.True(t, empty.IsContinuation)
}

func TestDeriveWakeClosesNightSleep(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	only := day("2025-01-02", ev("01:30", "work"), ev("08:00", "wake"), ev("09:00", "breakfast"))

	d.DeriveAll([]*model.DailyLog{only}, nil)

	require.Len(t, only.Activities, 3)
	assert.Equal(t, "work", only.Activities[0].ProjectPath)
	assert.Equal(t, model.PathSleepNight, only.Activities[1].ProjectPath)
	assert.Equal(t, int64(6*3600+30*60), only.Activities[1].DurationSeconds)
	assert.Equal(t, "meal_breakfast", only.Activities[2].ProjectPath)
}

func TestStitchAddsSleepAcrossSources(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	last := day("2024-12-31", ev("07:00", "wake"), ev("23:10", "work"))
	last.Source = "2024.txt"
	first := day("2025-01-01", ev("08:00", "wake"), ev("09:00", "breakfast"))
	d.DeriveAll([]*model.DailyLog{last}, nil)
	d.DeriveAll([]*model.DailyLog{first}, nil)
	require.False(t, last.EndsWithSleep)

	days := []*model.DailyLog{last, first}
	changed := d.Stitch(days, model.NewErrorSet(""))

	require.Len(t, changed, 1)
	joined := days[0]
	assert.NotSame(t, last, joined)
	assert.False(t, last.EndsWithSleep, "original left untouched")
	assert.Len(t, last.Activities, 1)

	assert.True(t, joined.EndsWithSleep)
	require.Len(t, joined.Activities, 2)
	sleep := joined.Activities[1]
	assert.Equal(t, model.PathSleepNight, sleep.ProjectPath)
	assert.Equal(t, int64(8*3600+50*60), sleep.DurationSeconds)
	assert.Equal(t, "23:10", sleep.StartTime)
	assert.Equal(t, "08:00", sleep.EndTime)

	assert.Empty(t, d.Stitch(days, nil), "already joined")
}

func TestStitchCarriesIntoContinuationAcrossSources(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	last := day("2024-12-31", ev("07:00", "wake"), ev("23:30", "work"))
	last.Source = "2024.txt"
	cont := day("2025-01-01", ev("01:30", "game"), ev("01:35", "toilet"))
	next := day("2025-01-02", ev("08:35", "wake"), ev("10:00", "breakfast"))
	d.DeriveAll([]*model.DailyLog{last}, nil)
	d.DeriveAll([]*model.DailyLog{cont, next}, nil)
	assert.Equal(t, "00:00", cont.Activities[0].StartTime)

	days := []*model.DailyLog{last, cont, next}
	changed := d.Stitch(days, nil)

	require.Len(t, changed, 1)
	assert.False(t, days[0].EndsWithSleep)
	joined := days[1]
	require.Len(t, joined.Activities, 3)
	assert.Equal(t, last.Activities[0].EndTimestamp, joined.Activities[0].StartTimestamp)
	assert.Equal(t, int64(2*3600), joined.Activities[0].DurationSeconds)
	assert.True(t, joined.EndsWithSleep)
	assert.Equal(t, "00:00", cont.Activities[0].StartTime, "original left untouched")
}

func TestStitchSkipsGapsAndSameSource(t *testing.T) {
	d := NewDeriver(testParserConfig(), time.UTC, nil)
	a := day("2025-01-01", ev("07:00", "wake"), ev("23:00", "work"))
	a.Source = "a.txt"
	b := day("2025-01-03", ev("07:00", "wake"), ev("08:00", "work"))
	b.Source = "b.txt"
	c := day("2025-01-04", ev("07:00", "wake"), ev("08:00", "work"))
	c.Source = "b.txt"
	d.DeriveAll([]*model.DailyLog{a}, nil)
	d.DeriveAll([]*model.DailyLog{b}, nil)
	d.DeriveAll([]*model.DailyLog{c}, nil)

	assert.Empty(t, d.Stitch([]*model.DailyLog{a, b, c}, nil))
}
