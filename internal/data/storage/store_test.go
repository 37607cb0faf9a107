package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a migrated in-memory store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:", time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDay(date string, acts ...model.Activity) *model.DailyLog {
	d, _ := time.ParseInLocation(model.DateLayout, date, time.UTC)
	day := &model.DailyLog{
		Date:           d,
		Getup:          "07:00",
		GeneralRemarks: []string{"first", "second"},
		Activities:     acts,
		Source:         "2025.txt",
	}
	for _, a := range acts {
		if a.ProjectPath == model.PathSleepNight {
			day.EndsWithSleep = true
		}
		if a.ProjectPath == model.PathStudy {
			day.Stats.Study += a.DurationSeconds
		}
	}
	return day
}

func act(id int64, start, end int64, path string) model.Activity {
	return model.Activity{
		LogicalID:       id,
		StartTimestamp:  start,
		EndTimestamp:    end,
		StartTime:       time.Unix(start, 0).UTC().Format(model.ClockLayout),
		EndTime:         time.Unix(end, 0).UTC().Format(model.ClockLayout),
		ProjectPath:     path,
		DurationSeconds: end - start,
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	store := openTestStore(t)

	runner := NewMigrationRunner(store.db)
	require.NoError(t, runner.Run())
	require.NoError(t, runner.Run())

	v, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSaveAndGetDay(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC).Unix()

	day := testDay("2025-01-01",
		act(1, base, base+3600, model.PathStudy),
		act(2, base+3600, base+7200, "meal_lunch"),
	)
	n, err := store.SaveDays(ctx, []*model.DailyLog{day})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.GetDay(ctx, day.Date)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", got.DateString())
	assert.Equal(t, "07:00", got.Getup)
	assert.Equal(t, []string{"first", "second"}, got.GeneralRemarks)
	assert.Equal(t, "2025.txt", got.Source)
	assert.Equal(t, int64(3600), got.Stats.Study)
	assert.Equal(t, 1, got.Status())
	require.Len(t, got.Activities, 2)
	assert.Equal(t, day.Activities, got.Activities)
}

func TestGetDayNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetDay(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestSaveDaysReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC).Unix()

	_, err := store.SaveDays(ctx, []*model.DailyLog{testDay("2025-01-01", act(1, base, base+60, "work"), act(2, base+60, base+120, "work"))})
	require.NoError(t, err)
	_, err = store.SaveDays(ctx, []*model.DailyLog{testDay("2025-01-01", act(1, base, base+600, "game"))})
	require.NoError(t, err)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Days)
	assert.Equal(t, 1, stats.Activities)

	got, err := store.GetDay(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, "game", got.Activities[0].ProjectPath)
}

func TestSaveDaysKeepsLogicalIDsUnique(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	jan := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC).Unix()
	feb := time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC).Unix()

	_, err := store.SaveDays(ctx, []*model.DailyLog{
		testDay("2025-01-01", act(1, jan, jan+60, "work"), act(2, jan+60, jan+120, "work")),
		testDay("2025-02-01", act(3, feb, feb+60, "work")),
	})
	require.NoError(t, err)
	// a later save of one file numbers its activities from 1 again
	_, err = store.SaveDays(ctx, []*model.DailyLog{
		testDay("2025-02-01", act(1, feb, feb+60, "work"), act(2, feb+60, feb+120, "game")),
	})
	require.NoError(t, err)

	days, err := store.GetDays(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	var ids []int64
	for _, d := range days {
		for _, a := range d.Activities {
			ids = append(ids, a.LogicalID)
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestGetDaysAndAggregatedProjectStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var days []*model.DailyLog
	for i, date := range []string{"2025-01-30", "2025-01-31", "2025-02-01"} {
		base := time.Date(2025, 1, 30+i, 7, 0, 0, 0, time.UTC).Unix()
		days = append(days, testDay(date,
			act(int64(i*3+1), base, base+3600, "study_math"),
			act(int64(i*3+2), base+3600, base+5400, "exercise_cardio_run"),
			act(int64(i*3+3), base+5400, base+5400+8*3600, model.PathSleepNight),
		))
	}
	_, err := store.SaveDays(ctx, days)
	require.NoError(t, err)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	got, err := store.GetDays(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-30", got[0].DateString())
	assert.Len(t, got[1].Activities, 3)
	assert.True(t, got[1].EndsWithSleep)

	stats, err := store.GetAggregatedProjectStats(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, []model.ProjectStat{
		{Path: model.PathSleepNight, Duration: 2 * 8 * 3600},
		{Path: "study_math", Duration: 2 * 3600},
		{Path: "exercise_cardio_run", Duration: 2 * 1800},
	}, stats)

	summary, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, 9, summary.Activities)
	assert.Equal(t, "2025-01-30", summary.FirstDate)
	assert.Equal(t, "2025-02-01", summary.LastDate)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "time.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	stats, err := reopened.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Version)
}
