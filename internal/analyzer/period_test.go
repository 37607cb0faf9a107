package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthPeriod(t *testing.T) {
	p, err := MonthPeriod("2024-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", p.From.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", p.To.Format("2006-01-02"))
	assert.Equal(t, 29, p.Days())
	assert.Equal(t, "2024-02", p.Label)

	_, err = MonthPeriod("2024/02", time.UTC)
	assert.Error(t, err)
}

func TestRangePeriod(t *testing.T) {
	p, err := RangePeriod("2025-01-30", "2025-02-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Days())

	_, err = RangePeriod("2025-02-02", "2025-01-30", time.UTC)
	assert.Error(t, err)

	_, err = RangePeriod("bad", "2025-01-30", time.UTC)
	assert.Error(t, err)
}

func TestRecentPeriod(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		wantFrom string
		wantErr  bool
	}{
		{"1d", "2025-03-10", false},
		{"7d", "2025-03-04", false},
		{"2w", "2025-02-25", false},
		{"1w3d", "2025-03-01", false},
		{"1m", "2025-02-09", false},
		{"0d", "", true},
		{"abc", "", true},
		{"abc7dxyz", "", true},
		{"7d ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := RecentPeriod(tt.input, today)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, p.From.Format("2006-01-02"))
			assert.True(t, p.To.Equal(today))
		})
	}
}
