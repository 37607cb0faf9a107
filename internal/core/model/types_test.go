package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityStatsAddGet(t *testing.T) {
	var s ActivityStats
	s.Add(StatCardio, 600)
	s.Add(StatCardio, 300)
	s.Add(StatKey("nope"), 100)

	assert.Equal(t, int64(900), s.Cardio)
	assert.Equal(t, int64(900), s.Get(StatCardio))
	assert.Equal(t, int64(0), s.Get(StatKey("nope")))
}

func TestActivityStatsMerge(t *testing.T) {
	a := ActivityStats{Study: 100, SleepNight: 10}
	b := ActivityStats{Study: 50, Gaming: 5}
	a.Merge(b)

	assert.Equal(t, ActivityStats{Study: 150, SleepNight: 10, Gaming: 5}, a)
}

func TestIsKnownStatKey(t *testing.T) {
	for _, k := range StatKeys {
		assert.True(t, IsKnownStatKey(string(k)), k)
	}
	assert.False(t, IsKnownStatKey("coffee"))
}

func TestNewDayRecord(t *testing.T) {
	day := &DailyLog{
		Date:           time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Getup:          "07:00",
		GeneralRemarks: []string{"first", "second"},
		EndsWithSleep:  true,
		Stats:          ActivityStats{Study: 3600},
		Activities: []Activity{
			{LogicalID: 1, StartTime: "07:00", EndTime: "08:00", ProjectPath: "study_math", DurationSeconds: 3600},
		},
	}

	rec := NewDayRecord(day, "")
	assert.Equal(t, "2025-01-02", rec.Date)
	assert.Equal(t, 1, rec.Status)
	assert.Equal(t, 1, rec.Sleep)
	assert.Equal(t, "first\nsecond", rec.Remark)
	require.Len(t, rec.Activities, 1)
	assert.Equal(t, "study", rec.Activities[0].TopParent)
	assert.Equal(t, []string{"study", "math"}, rec.Activities[0].Parents)

	day.Activities[0].ProjectPath = "study.language.japanese"
	rec = NewDayRecord(day, ".")
	assert.Equal(t, "study", rec.Activities[0].TopParent)
	assert.Equal(t, []string{"study", "language", "japanese"}, rec.Activities[0].Parents)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		sep      string
		expected []string
	}{
		{name: "underscore", path: "exercise_cardio_run", sep: "_", expected: []string{"exercise", "cardio", "run"}},
		{name: "dot", path: "a.b.c", sep: ".", expected: []string{"a", "b", "c"}},
		{name: "single", path: "sleep", sep: "_", expected: []string{"sleep"}},
		{name: "doubled separator", path: "a__b", sep: "_", expected: []string{"a", "b"}},
		{name: "empty", path: "", sep: "_", expected: []string{""}},
		{name: "no separator", path: "a_b", sep: "", expected: []string{"a_b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPath(tt.path, tt.sep))
		})
	}
}

func TestDailyLogLastEnd(t *testing.T) {
	d := &DailyLog{}
	_, ok := d.LastEnd()
	assert.False(t, ok)

	d.Activities = []Activity{{EndTimestamp: 10}, {EndTimestamp: 20}}
	end, ok := d.LastEnd()
	assert.True(t, ok)
	assert.Equal(t, int64(20), end)
}

func TestDailyLogClone(t *testing.T) {
	d := &DailyLog{
		GeneralRemarks: []string{"a"},
		Activities:     []Activity{{LogicalID: 1, EndTimestamp: 10}},
	}
	c := d.Clone()
	c.Activities = append(c.Activities, Activity{LogicalID: 2})
	c.Activities[0].LogicalID = 9
	c.GeneralRemarks[0] = "b"

	require.Len(t, d.Activities, 1)
	assert.Equal(t, int64(1), d.Activities[0].LogicalID)
	assert.Equal(t, "a", d.GeneralRemarks[0])
}

func TestProjectTreeInsert(t *testing.T) {
	tree := NewProjectTree()
	assert.True(t, tree.Empty())

	tree.Insert([]string{"a", "b"}, 10)
	tree.Insert([]string{"a", "c"}, 5)

	a, ok := tree.Root("a")
	require.True(t, ok)
	assert.Equal(t, int64(15), a.Duration)
	assert.Equal(t, int64(15), tree.Total())
	require.Len(t, a.Children, 2)
	assert.Equal(t, "b", a.Children[0].Name)
	_, ok = a.Child("missing")
	assert.False(t, ok)
}
