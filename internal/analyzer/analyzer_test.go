package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/core/validation"
	"github.com/penwyp/go-time-tracer/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const january = `y2025
0101
0700wake
0830breakfast
1130math
2310code
0102
0700wake
0705toilet
1200work
`

const february = `y2025
0201
0730wake
0900work
1000run
`

const broken = `y2025
0301
0700wake
what is this
0800work
`

func writeLogs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestAnalyzer(t *testing.T, cacheDir string, mode validation.DateCheckMode) *Analyzer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.App.CacheDir = cacheDir
	a, err := New(cfg, Options{
		UseCache:    cacheDir != "",
		Concurrency: 2,
		DateCheck:   mode,
		Location:    time.UTC,
	})
	require.NoError(t, err)
	return a
}

func TestAnalyzeMergesFilesInDateOrder(t *testing.T) {
	dir := writeLogs(t, map[string]string{"b.txt": february, "a.txt": january})
	a := newTestAnalyzer(t, "", validation.DateCheckContinuity)

	result, err := a.Analyze(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Files, 2)
	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.True(t, result.Errors.Empty(), "%v", result.Errors.Sorted())
	require.Len(t, result.Days, 3)
	assert.Equal(t, "2025-01-01", result.Days[0].DateString())
	assert.Equal(t, "2025-01-02", result.Days[1].DateString())
	assert.Equal(t, "2025-02-01", result.Days[2].DateString())
}

func TestAnalyzeAssignsIncreasingIDs(t *testing.T) {
	dir := writeLogs(t, map[string]string{"a.txt": january, "b.txt": february})
	a := newTestAnalyzer(t, "", validation.DateCheckNone)

	result, err := a.Analyze(context.Background(), dir)
	require.NoError(t, err)

	var last int64
	for _, d := range result.Days {
		for _, act := range d.Activities {
			assert.Equal(t, last+1, act.LogicalID)
			last = act.LogicalID
		}
	}
	assert.Positive(t, last)
}

func TestAnalyzeUsesCacheOnSecondRun(t *testing.T) {
	dir := writeLogs(t, map[string]string{"a.txt": january, "b.txt": february})
	cacheDir := t.TempDir()

	first, err := newTestAnalyzer(t, cacheDir, validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, first.CacheHits)

	second, err := newTestAnalyzer(t, cacheDir, validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	require.Len(t, second.Days, len(first.Days))
	for i := range first.Days {
		assert.Equal(t, first.Days[i].DateString(), second.Days[i].DateString())
		assert.Equal(t, first.Days[i].Stats, second.Days[i].Stats)
		assert.Len(t, second.Days[i].Activities, len(first.Days[i].Activities))
	}
}

func TestAnalyzeNoFiles(t *testing.T) {
	a := newTestAnalyzer(t, "", validation.DateCheckNone)

	_, err := a.Analyze(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoSourceFiles)
}

func TestAnalyzeReportsMissingDates(t *testing.T) {
	gap := "y2025\n0101\n0700wake\n0800work\n0103\n0700wake\n0800work\n"
	dir := writeLogs(t, map[string]string{"gap.txt": gap})

	result, err := newTestAnalyzer(t, "", validation.DateCheckContinuity).Analyze(context.Background(), dir)
	require.NoError(t, err)
	var missing []string
	for _, e := range result.Errors.Sorted() {
		if e.Kind == model.KindDateContinuity {
			missing = append(missing, e.Message)
		}
	}
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0], "2025-01-02")

	result, err = newTestAnalyzer(t, "", validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, result.Errors.Count(model.KindDateContinuity))
}

func TestStorableDaysStrict(t *testing.T) {
	dir := writeLogs(t, map[string]string{"a.txt": january, "c.txt": broken})

	result, err := newTestAnalyzer(t, "", validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)
	require.False(t, result.Errors.Empty())

	all := result.StorableDays(false)
	strict := result.StorableDays(true)
	assert.Len(t, all, 3)
	require.Len(t, strict, 2)
	for _, d := range strict {
		assert.Equal(t, filepath.Join(dir, "a.txt"), d.Source)
	}
}

func TestFilter(t *testing.T) {
	dir := writeLogs(t, map[string]string{"a.txt": january, "b.txt": february})
	result, err := newTestAnalyzer(t, "", validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)

	p, err := MonthPeriod("2025-01", time.UTC)
	require.NoError(t, err)
	assert.Len(t, result.Filter(p), 2)

	p, err = DayPeriod("2025-02-01", time.UTC)
	require.NoError(t, err)
	assert.Len(t, result.Filter(p), 1)
}

func TestAnalyzeGeneratedLogs(t *testing.T) {
	dir := t.TempDir()
	g := fixtures.NewLogDataGenerator(dir)
	_, err := g.GenerateDays("2024.txt", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 4)
	require.NoError(t, err)
	_, err = g.GenerateDays("2025/march.txt", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)

	result, err := newTestAnalyzer(t, "", validation.DateCheckNone).Analyze(context.Background(), dir)
	require.NoError(t, err)

	assert.True(t, result.Errors.Empty(), "%v", result.Errors.Sorted())
	require.Len(t, result.Days, 14)
	for i, d := range result.Days {
		assert.Equal(t, int64(fixtures.StandardStudySeconds), d.Stats.Study, d.DateString())
		lastOfFile := i == 3 || i == 13
		if lastOfFile {
			assert.False(t, d.EndsWithSleep, d.DateString())
			continue
		}
		assert.True(t, d.EndsWithSleep, d.DateString())
		assert.Equal(t, int64(fixtures.StandardSleepSeconds), d.Stats.SleepNight, d.DateString())
	}
}

func TestAnalyzeJoinsSleepAcrossYearFiles(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2024.txt": "y2024\n1231\n0700wake\n0830breakfast\n2310work\n",
		"2025.txt": "y2025\n0101\n0800wake\n0900breakfast\n1200work\n",
	})
	cacheDir := t.TempDir()

	for _, run := range []string{"parsed", "cached"} {
		result, err := newTestAnalyzer(t, cacheDir, validation.DateCheckNone).Analyze(context.Background(), dir)
		require.NoError(t, err, run)
		assert.True(t, result.Errors.Empty(), "%s: %v", run, result.Errors.Sorted())
		require.Len(t, result.Days, 2, run)

		last := result.Days[0]
		assert.Equal(t, "2024-12-31", last.DateString(), run)
		assert.True(t, last.EndsWithSleep, run)
		assert.Equal(t, 1, last.SleepFlag(), run)
		assert.Equal(t, int64(31800), last.Stats.SleepNight, run)
		require.Len(t, last.Activities, 3, run)
		assert.Equal(t, model.PathSleepNight, last.Activities[2].ProjectPath, run)
	}
}
