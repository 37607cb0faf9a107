package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/interval"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/core/stats"
	"github.com/penwyp/go-time-tracer/internal/util"
	"golang.org/x/sync/errgroup"
)

// Parser converts source log files into derived days. Configuration and rule
// tables are shared read-only; every parse owns its own validator and deriver.
type Parser struct {
	cfg         config.ParserConfig
	keywords    map[string]struct{}
	lines       *LineClassifier
	stats       *stats.Classifier
	location    *time.Location
	concurrency int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Days   []*model.DailyLog
	Errors *model.ErrorSet
	Lines  int
	Error  error
}

// BatchResult is the merged outcome of ParseFiles.
type BatchResult struct {
	Results   []ParseResult
	Days      []*model.DailyLog
	Errors    *model.ErrorSet
	Succeeded int
	Failed    int
}

// NewParser creates a new Parser. concurrency <= 0 uses GOMAXPROCS.
func NewParser(cfg *config.Config, loc *time.Location, concurrency int) *Parser {
	if loc == nil {
		loc = time.Local
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Parser{
		cfg:         cfg.Parser,
		keywords:    cfg.Parser.Keywords(),
		lines:       NewLineClassifier(cfg.Parser.RemarkPrefix, cfg.Parser.InlineRemarkDelimiter),
		stats:       stats.FromConfig(cfg.Stats, cfg.Parser.PathSeparator),
		location:    loc,
		concurrency: concurrency,
	}
}

// ParseContent validates content line by line, builds its days and derives
// their activities and statistics. Derivation runs even when errors were found.
func (p *Parser) ParseContent(source, content string) ParseResult {
	errs := model.NewErrorSet(source)
	v := NewValidator(errs, p.keywords, p.cfg.WakeKeywords)

	var (
		days    []*model.DailyLog
		current *model.DailyLog
		lineNo  int
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := CleanLine(scanner.Text())

		switch p.lines.Classify(line) {
		case LineBlank:
		case LineYear:
			year, err := ParseYear(line)
			if err != nil {
				v.LineFormat(lineNo, err)
				continue
			}
			v.ProcessYear(lineNo, year)
			current = nil
		case LineDate:
			current = nil
			year, ok := v.Year()
			if !ok {
				v.ProcessDate(lineNo, time.Time{})
				continue
			}
			date, err := ParseDate(line, year, p.location)
			if err != nil {
				v.LineFormat(lineNo, err)
				v.ProcessDate(lineNo, time.Time{})
				continue
			}
			v.ProcessDate(lineNo, date)
			current = &model.DailyLog{Date: date, Source: source, LineNumber: lineNo}
			days = append(days, current)
		case LineRemark:
			v.ProcessRemark(lineNo)
			if current != nil {
				if text := p.lines.ParseRemark(line); text != "" {
					current.GeneralRemarks = append(current.GeneralRemarks, text)
				}
			}
		case LineEvent:
			ev, err := p.lines.ParseEvent(line)
			if err != nil {
				v.LineFormat(lineNo, err)
				v.MarkEvent()
				continue
			}
			ev.LineNumber = lineNo
			v.ProcessEvent(lineNo, ev)
			if current != nil {
				current.RawEvents = append(current.RawEvents, ev)
			}
		default:
			v.InvalidLine(lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		errs.Addf(lineNo, model.KindFileAccess, "reading content: %v", err)
	}

	deriver := interval.NewDeriver(p.cfg, p.location, interval.NewIDSource(1))
	deriver.DeriveAll(days, errs)
	for _, d := range days {
		p.stats.Apply(d)
	}

	return ParseResult{File: source, Days: days, Errors: errs, Lines: lineNo}
}

// ParseFile reads and parses the file at path. An unreadable file yields a
// single FileAccess error and no days.
func (p *Parser) ParseFile(path string) ParseResult {
	util.LogDebugf("Start parsing file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		util.LogDebugf("Failed to read file: %s - %v", path, err)
		errs := model.NewErrorSet(path)
		errs.Addf(0, model.KindFileAccess, "cannot read file: %v", err)
		return ParseResult{File: path, Errors: errs, Error: err}
	}

	result := p.ParseContent(path, string(data))
	util.LogDebugf("Parsed %s: %d lines, %d days, %d errors", path, result.Lines, len(result.Days), result.Errors.Len())
	return result
}

// ParseFiles parses files concurrently. Each file is parsed by its own task
// and merged under a single lock once it completes. A failed file never
// cancels the others; the only early exit is cancellation of ctx.
func (p *Parser) ParseFiles(ctx context.Context, files []string) (*BatchResult, error) {
	start := time.Now()
	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	batch := &BatchResult{
		Results: make([]ParseResult, len(files)),
		Errors:  model.NewErrorSet(""),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fileStart := time.Now()
			result := p.ParseFile(file)
			if result.Error != nil {
				util.LogDebugf("File parsing failed: %s, duration %v - %v", file, time.Since(fileStart), result.Error)
			}

			mu.Lock()
			defer mu.Unlock()
			batch.Results[i] = result
			batch.Days = append(batch.Days, result.Days...)
			batch.Errors.Merge(result.Errors)
			if result.Error != nil {
				batch.Failed++
			} else {
				batch.Succeeded++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parser: parse files: %w", err)
	}

	SortDays(batch.Days)
	util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	return batch, nil
}

// StitchSources joins days of different source files that meet on the
// calendar and refreshes the statistics of every day that changed. days must
// be sorted. It returns the number of days that changed.
func (p *Parser) StitchSources(days []*model.DailyLog, errs *model.ErrorSet) int {
	deriver := interval.NewDeriver(p.cfg, p.location, interval.NewIDSource(1))
	changed := deriver.Stitch(days, errs)
	for _, d := range changed {
		p.stats.Apply(d)
	}
	return len(changed)
}

// SortDays orders days by date, then by source file.
func SortDays(days []*model.DailyLog) {
	sort.SliceStable(days, func(i, j int) bool {
		if !days[i].Date.Equal(days[j].Date) {
			return days[i].Date.Before(days[j].Date)
		}
		return days[i].Source < days[j].Source
	})
}
