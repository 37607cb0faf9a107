package stats

import (
	"testing"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func defaultClassifier() *Classifier {
	return FromConfig(config.DefaultConfig().Stats, "")
}

func TestClassifierKeys(t *testing.T) {
	c := defaultClassifier()

	tests := []struct {
		path     string
		expected []model.StatKey
	}{
		{path: "sleep_night", expected: []model.StatKey{model.StatSleepTotal, model.StatSleepNight}},
		{path: "sleep_day", expected: []model.StatKey{model.StatSleepTotal, model.StatSleepDay}},
		{path: "exercise_cardio_run", expected: []model.StatKey{model.StatTotalExercise, model.StatCardio}},
		{path: "recreation_game", expected: []model.StatKey{model.StatRecreation, model.StatGaming}},
		{path: "study_math", expected: []model.StatKey{model.StatStudy}},
		{path: "studying", expected: nil},
		{path: "meal_lunch", expected: nil},
		{path: "routine_toilet_quick", expected: []model.StatKey{model.StatToilet}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Keys(tt.path))
		})
	}
}

func TestClassifierCustomSeparator(t *testing.T) {
	c := NewClassifier([]Rule{{Prefix: "a", Key: model.StatStudy}}, ".")

	assert.Equal(t, []model.StatKey{model.StatStudy}, c.Keys("a.b"))
	assert.Nil(t, c.Keys("a_b"))
}

func TestClassifyDay(t *testing.T) {
	c := defaultClassifier()
	day := &model.DailyLog{Activities: []model.Activity{
		{ProjectPath: "study_math", DurationSeconds: 3600},
		{ProjectPath: "exercise_anaerobic_gym", DurationSeconds: 1800},
		{ProjectPath: "exercise_cardio_run", DurationSeconds: 600},
		{ProjectPath: "recreation_bilibili", DurationSeconds: 900},
		{ProjectPath: "sleep_night", DurationSeconds: 28200},
		{ProjectPath: "meal_dinner", DurationSeconds: 1200},
	}}

	c.Apply(day)

	assert.Equal(t, int64(3600), day.Stats.Study)
	assert.Equal(t, int64(2400), day.Stats.TotalExercise)
	assert.Equal(t, int64(1800), day.Stats.Anaerobic)
	assert.Equal(t, int64(600), day.Stats.Cardio)
	assert.Equal(t, int64(900), day.Stats.Recreation)
	assert.Equal(t, int64(900), day.Stats.RecreationBilibili)
	assert.Equal(t, int64(28200), day.Stats.SleepNight)
	assert.Equal(t, int64(28200), day.Stats.SleepTotal)
	assert.Equal(t, 1, day.Status())
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := defaultClassifier()
	day := &model.DailyLog{Activities: []model.Activity{
		{ProjectPath: "sleep_day", DurationSeconds: 1200},
		{ProjectPath: "routine_grooming", DurationSeconds: 300},
	}}

	c.Apply(day)
	first := day.Stats
	c.Apply(day)

	assert.Equal(t, first, day.Stats)
	assert.Equal(t, 0, day.Status())
}

func TestClassifyNoMatches(t *testing.T) {
	c := NewClassifier(nil, "")
	stats := c.Classify([]model.Activity{{ProjectPath: "work", DurationSeconds: 60}})
	assert.Equal(t, model.ActivityStats{}, stats)
}
