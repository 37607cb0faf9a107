package stats

import (
	"strings"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// Rule binds a project path prefix to an accumulator.
type Rule struct {
	Prefix string
	Key    model.StatKey
}

// Classifier folds activities into ActivityStats. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	rules []Rule
	sep   string
}

// NewClassifier creates a classifier over rules. An empty sep uses
// model.DefaultPathSeparator.
func NewClassifier(rules []Rule, sep string) *Classifier {
	if sep == "" {
		sep = model.DefaultPathSeparator
	}
	return &Classifier{rules: append([]Rule(nil), rules...), sep: sep}
}

// FromConfig creates a classifier from the configured rule table. sep splits
// project paths into segments.
func FromConfig(cfg config.StatsConfig, sep string) *Classifier {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, Rule{Prefix: r.Prefix, Key: model.StatKey(r.Key)})
	}
	return NewClassifier(rules, sep)
}

// Keys returns the accumulators a path feeds: the key of the most specific
// matching rule plus the keys of every matching ancestor prefix. Keys appear
// in rule order without duplicates.
func (c *Classifier) Keys(path string) []model.StatKey {
	winner := -1
	for i, r := range c.rules {
		if c.matches(r.Prefix, path) && (winner < 0 || len(r.Prefix) > len(c.rules[winner].Prefix)) {
			winner = i
		}
	}
	if winner < 0 {
		return nil
	}

	target := c.rules[winner].Prefix
	var keys []model.StatKey
	seen := make(map[model.StatKey]struct{})
	for _, r := range c.rules {
		if !c.matches(r.Prefix, target) {
			continue
		}
		if _, ok := seen[r.Key]; ok {
			continue
		}
		seen[r.Key] = struct{}{}
		keys = append(keys, r.Key)
	}
	return keys
}

// Classify sums the durations of activities per accumulator.
func (c *Classifier) Classify(activities []model.Activity) model.ActivityStats {
	var out model.ActivityStats
	for _, a := range activities {
		for _, k := range c.Keys(a.ProjectPath) {
			out.Add(k, a.DurationSeconds)
		}
	}
	return out
}

// Apply replaces day.Stats with the classification of its activities.
func (c *Classifier) Apply(day *model.DailyLog) {
	day.Stats = c.Classify(day.Activities)
}

func (c *Classifier) matches(prefix, path string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+c.sep)
}
