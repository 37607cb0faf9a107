package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/core/validation"
	"github.com/penwyp/go-time-tracer/internal/data/cache"
	"github.com/penwyp/go-time-tracer/internal/data/parser"
	"github.com/penwyp/go-time-tracer/internal/data/scanner"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// ErrNoSourceFiles is returned when the given paths contain no log files.
var ErrNoSourceFiles = errors.New("no source files found")

// Options controls a single analysis run.
type Options struct {
	Paths       []string
	UseCache    bool
	Concurrency int
	DateCheck   validation.DateCheckMode
	Location    *time.Location
}

// Analyzer turns source log files into validated, identified days.
type Analyzer struct {
	config *config.Config
	opts   Options
	parser *parser.Parser
	files  *scanner.FileScanner
	cache  cache.Cache
}

// Result is the outcome of one run over all source files.
type Result struct {
	Files     []string
	Days      []*model.DailyLog
	Errors    *model.ErrorSet
	Succeeded int
	Failed    int
	CacheHits int
	Duration  time.Duration
}

// New creates an Analyzer. A file cache under cfg.App.CacheDir is used when
// opts.UseCache is set.
func New(cfg *config.Config, opts Options) (*Analyzer, error) {
	if opts.Location == nil {
		loc, err := util.LoadLocation(cfg.App.Timezone)
		if err != nil {
			return nil, fmt.Errorf("analyzer: %w", err)
		}
		opts.Location = loc
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = cfg.App.Concurrency
	}

	a := &Analyzer{
		config: cfg,
		opts:   opts,
		parser: parser.NewParser(cfg, opts.Location, opts.Concurrency),
		files:  scanner.NewFileScanner(""),
	}

	if opts.UseCache && cfg.App.CacheDir != "" {
		fc, err := cache.NewFileCache(config.ExpandPath(cfg.App.CacheDir), cfg.Fingerprint())
		if err != nil {
			util.LogWarnf("Cache disabled: %v", err)
		} else {
			a.cache = fc
		}
	}
	return a, nil
}

// Location returns the timezone days are built in.
func (a *Analyzer) Location() *time.Location {
	return a.opts.Location
}

// Scanner returns the file scanner used to find source files.
func (a *Analyzer) Scanner() *scanner.FileScanner {
	return a.files
}

// Run analyzes the configured paths.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	return a.Analyze(ctx, a.opts.Paths...)
}

// Analyze scans paths, parses every file not served by the cache, joins days
// that meet across source files, then runs the logic and date checks over the
// merged days and assigns logical ids in date order.
func (a *Analyzer) Analyze(ctx context.Context, paths ...string) (*Result, error) {
	start := time.Now()
	stats := NewBatchStats()

	phaseStart := time.Now()
	files, err := a.files.Scan(paths...)
	if err != nil {
		return nil, fmt.Errorf("analyzer: scan: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}
	util.LogDebugf("Scan phase: %d files in %v", len(files), time.Since(phaseStart))

	phaseStart = time.Now()
	results := make(map[string]parser.ParseResult, len(files))
	var misses []string
	for _, f := range files {
		stats.IncrementTotal()
		if a.cache == nil {
			misses = append(misses, f)
			continue
		}
		cr := a.cache.Get(f)
		if cr.Found {
			stats.IncrementHit()
			results[f] = cr.Entry.Result()
			continue
		}
		stats.IncrementMiss(f, cr.MissReason)
		misses = append(misses, f)
	}
	util.LogDebugf("Cache phase: %d hits, %d to parse in %v", len(files)-len(misses), len(misses), time.Since(phaseStart))

	if len(misses) > 0 {
		phaseStart = time.Now()
		batch, err := a.parser.ParseFiles(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("analyzer: %w", err)
		}
		for _, r := range batch.Results {
			results[r.File] = r
			if r.Error != nil {
				stats.IncrementFailure()
				continue
			}
			if a.cache != nil {
				if err := a.cache.Set(r.File, cache.NewEntry(r)); err != nil {
					util.LogDebugf("Failed to cache %s: %v", r.File, err)
				}
			}
		}
		util.LogDebugf("Parse phase: %d files in %v", len(misses), time.Since(phaseStart))
	}

	phaseStart = time.Now()
	out := &Result{Files: files, Errors: model.NewErrorSet("")}
	for _, f := range files {
		r := results[f]
		errs := model.NewErrorSet(f)
		errs.Merge(r.Errors)
		validation.CheckDays(r.Days, a.opts.DateCheck, f, errs)
		out.Errors.Merge(errs)
		out.Days = append(out.Days, r.Days...)
	}
	parser.SortDays(out.Days)
	if n := a.parser.StitchSources(out.Days, out.Errors); n > 0 {
		util.LogDebugf("Stitched %d days across source files", n)
	}
	validation.CheckLogic(out.Days, out.Errors)
	AssignIDs(out.Days)
	util.LogDebugf("Validate phase: %d days, %d errors in %v", len(out.Days), out.Errors.Len(), time.Since(phaseStart))

	summary := stats.Summary()
	out.Succeeded = int(summary.Succeeded)
	out.Failed = int(summary.Failed)
	out.CacheHits = int(summary.CacheHits)
	out.Duration = time.Since(start)
	stats.LogFinal()
	return out, nil
}

// AssignIDs numbers every activity of days from 1 in order. days must already
// be sorted.
func AssignIDs(days []*model.DailyLog) {
	var next int64 = 1
	for _, d := range days {
		for i := range d.Activities {
			d.Activities[i].LogicalID = next
			next++
		}
	}
}

// StorableDays returns the days that may be written to storage. In strict
// mode days from any source with errors are left out.
func (r *Result) StorableDays(strict bool) []*model.DailyLog {
	if !strict || r.Errors.Empty() {
		return r.Days
	}
	sources, _ := r.Errors.BySource()
	bad := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		bad[s] = struct{}{}
	}
	out := make([]*model.DailyLog, 0, len(r.Days))
	for _, d := range r.Days {
		if _, ok := bad[d.Source]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// Filter returns the days within p.
func (r *Result) Filter(p Period) []*model.DailyLog {
	var out []*model.DailyLog
	for _, d := range r.Days {
		if !d.Date.Before(p.From) && !d.Date.After(p.To) {
			out = append(out, d)
		}
	}
	return out
}
