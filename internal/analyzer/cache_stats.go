package analyzer

import (
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-time-tracer/internal/data/cache"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// BatchStats counts how the files of one run were resolved.
type BatchStats struct {
	totalFiles  int64
	cacheHits   int64
	cacheMisses int64
	failures    int64
	mu          sync.Mutex
	missDetails []MissDetail
}

// MissDetail records details of a cache miss
type MissDetail struct {
	FilePath string
	Reason   cache.CacheMissReason
}

// Summary is a point-in-time copy of BatchStats.
type Summary struct {
	Total     int64
	Succeeded int64
	Failed    int64
	CacheHits int64
	HitRate   float64
}

// NewBatchStats creates a new BatchStats instance
func NewBatchStats() *BatchStats {
	return &BatchStats{}
}

func (bs *BatchStats) IncrementTotal() {
	atomic.AddInt64(&bs.totalFiles, 1)
}

func (bs *BatchStats) IncrementHit() {
	atomic.AddInt64(&bs.cacheHits, 1)
}

// IncrementMiss increases the cache miss count and records the miss detail
func (bs *BatchStats) IncrementMiss(filePath string, reason cache.CacheMissReason) {
	atomic.AddInt64(&bs.cacheMisses, 1)

	bs.mu.Lock()
	bs.missDetails = append(bs.missDetails, MissDetail{FilePath: filePath, Reason: reason})
	bs.mu.Unlock()
}

func (bs *BatchStats) IncrementFailure() {
	atomic.AddInt64(&bs.failures, 1)
}

// Summary returns the current counters.
func (bs *BatchStats) Summary() Summary {
	s := Summary{
		Total:     atomic.LoadInt64(&bs.totalFiles),
		CacheHits: atomic.LoadInt64(&bs.cacheHits),
		Failed:    atomic.LoadInt64(&bs.failures),
	}
	s.Succeeded = s.Total - s.Failed
	if s.Total > 0 {
		s.HitRate = float64(s.CacheHits) / float64(s.Total) * 100
	}
	return s
}

// MissDetails returns a copy of the recorded cache misses.
func (bs *BatchStats) MissDetails() []MissDetail {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	out := make([]MissDetail, len(bs.missDetails))
	copy(out, bs.missDetails)
	return out
}

// LogFinal logs the batch counters and a summary of cache miss reasons.
func (bs *BatchStats) LogFinal() {
	s := bs.Summary()
	util.LogInfof("Batch complete: %d files, %d succeeded, %d failed, cache hit rate %.1f%% (%d hits/%d misses)",
		s.Total, s.Succeeded, s.Failed, s.HitRate, s.CacheHits, atomic.LoadInt64(&bs.cacheMisses))

	details := bs.MissDetails()
	if len(details) == 0 {
		return
	}
	reasonCounts := make(map[cache.CacheMissReason]int)
	for _, d := range details {
		util.LogDebugf("  cache miss %s (%s)", d.FilePath, d.Reason)
		reasonCounts[d.Reason]++
	}
	for reason, count := range reasonCounts {
		util.LogDebugf("Cache miss reason %s: %d files", reason, count)
	}
}
