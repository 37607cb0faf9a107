package interval

import (
	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/constants"
)

// Mapper resolves an event description to its canonical project path.
type Mapper struct {
	text     map[string]string
	duration map[string]config.DurationRules
}

// NewMapper creates a mapper from the parser configuration.
func NewMapper(cfg config.ParserConfig) *Mapper {
	return &Mapper{
		text:     cfg.TextMappings,
		duration: cfg.DurationMappings,
	}
}

// Map returns the project path for an interval of durationSeconds labeled desc.
// Duration rules are tried first in order, then the text mapping, and the
// description itself is the fallback.
func (m *Mapper) Map(desc string, durationSeconds int64) string {
	for _, rule := range m.duration[desc] {
		if durationSeconds < int64(rule.LessThanMinutes)*constants.SecondsPerMinute {
			return rule.Value
		}
	}
	if path, ok := m.text[desc]; ok && path != "" {
		return path
	}
	return desc
}
