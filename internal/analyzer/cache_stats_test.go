package analyzer

import (
	"sync"
	"testing"

	"github.com/penwyp/go-time-tracer/internal/data/cache"
	"github.com/stretchr/testify/assert"
)

func TestBatchStatsSummary(t *testing.T) {
	bs := NewBatchStats()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bs.IncrementTotal()
			switch {
			case i < 6:
				bs.IncrementHit()
			case i < 9:
				bs.IncrementMiss("f.txt", cache.MissReasonSize)
			default:
				bs.IncrementMiss("g.txt", cache.MissReasonNotFound)
				bs.IncrementFailure()
			}
		}(i)
	}
	wg.Wait()

	s := bs.Summary()
	assert.Equal(t, int64(10), s.Total)
	assert.Equal(t, int64(6), s.CacheHits)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, int64(9), s.Succeeded)
	assert.InDelta(t, 60.0, s.HitRate, 0.001)
	assert.Len(t, bs.MissDetails(), 4)
}

func TestBatchStatsEmpty(t *testing.T) {
	s := NewBatchStats().Summary()
	assert.Zero(t, s.HitRate)
	assert.Zero(t, s.Total)
	bs := NewBatchStats()
	bs.LogFinal()
}
