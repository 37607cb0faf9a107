package config

import (
	"fmt"
	"hash/crc32"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/penwyp/go-time-tracer/internal/core/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "~/.go-time-tracer/config.yaml"

// Date check modes.
const (
	DateCheckNone       = "none"
	DateCheckContinuity = "continuity"
	DateCheckFull       = "full"
)

// Config holds all configuration. It is loaded once and read-only afterwards.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Parser     ParserConfig     `yaml:"parser"`
	Stats      StatsConfig      `yaml:"stats"`
	Validation ValidationConfig `yaml:"validation"`
	Storage    StorageConfig    `yaml:"storage"`
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Parser.Validate(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	if err := c.Stats.Validate(); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	if err := c.Validation.Validate(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

// Fingerprint identifies the parts of the configuration that change how
// source files convert, so cached conversions can be invalidated.
func (c *Config) Fingerprint() string {
	data, err := yaml.Marshal(struct {
		Parser   ParserConfig `yaml:"parser"`
		Stats    StatsConfig  `yaml:"stats"`
		Timezone string       `yaml:"timezone"`
	}{c.Parser, c.Stats, c.App.Timezone})
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Timezone    string `yaml:"timezone"`
	Concurrency int    `yaml:"concurrency"`
	CacheDir    string `yaml:"cache_dir"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timezone, validation.Required),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

// DurationRule maps an event to Value when its interval is shorter than LessThanMinutes.
type DurationRule struct {
	LessThanMinutes int    `yaml:"less_than_minutes"`
	Value           string `yaml:"value"`
}

// Validate validates a single duration rule.
func (r DurationRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LessThanMinutes, validation.Required, validation.Min(1)),
		validation.Field(&r.Value, validation.Required),
	)
}

// DurationRules is an ordered rule list; the first matching rule wins.
type DurationRules []DurationRule

// Validate validates each rule and requires strictly increasing thresholds.
func (rs DurationRules) Validate() error {
	for i, r := range rs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if i > 0 && r.LessThanMinutes <= rs[i-1].LessThanMinutes {
			return fmt.Errorf("thresholds must increase (%d after %d)", r.LessThanMinutes, rs[i-1].LessThanMinutes)
		}
	}
	return nil
}

// ParserConfig holds the source grammar vocabulary and mapping tables.
type ParserConfig struct {
	RemarkPrefix          string                   `yaml:"remark_prefix"`
	InlineRemarkDelimiter string                   `yaml:"inline_remark_delimiter"`
	WakeKeywords          []string                 `yaml:"wake_keywords"`
	TextMappings          map[string]string        `yaml:"text_mappings"`
	DurationMappings      map[string]DurationRules `yaml:"duration_mappings"`
	PathSeparator         string                   `yaml:"path_separator"`
}

// Validate validates the parser configuration.
func (c *ParserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RemarkPrefix, validation.Required, validation.By(notDigitLead)),
		validation.Field(&c.InlineRemarkDelimiter, validation.Required),
		validation.Field(&c.WakeKeywords, validation.Required),
		validation.Field(&c.PathSeparator, validation.Required, validation.RuneLength(1, 1)),
		validation.Field(&c.DurationMappings),
	)
}

// Keywords returns the event description vocabulary.
func (c *ParserConfig) Keywords() map[string]struct{} {
	out := make(map[string]struct{}, len(c.TextMappings)+len(c.DurationMappings)+len(c.WakeKeywords))
	for k := range c.TextMappings {
		out[k] = struct{}{}
	}
	for k := range c.DurationMappings {
		out[k] = struct{}{}
	}
	for _, k := range c.WakeKeywords {
		out[k] = struct{}{}
	}
	return out
}

func notDigitLead(value interface{}) error {
	s, _ := value.(string)
	if s != "" && unicode.IsDigit([]rune(s)[0]) {
		return fmt.Errorf("must not start with a digit")
	}
	return nil
}

// StatsRule binds a project path prefix to an ActivityStats accumulator.
type StatsRule struct {
	Prefix string `yaml:"prefix"`
	Key    string `yaml:"key"`
}

// Validate validates a single stats rule.
func (r StatsRule) Validate() error {
	keys := make([]interface{}, 0, len(model.StatKeys))
	for _, k := range model.StatKeys {
		keys = append(keys, string(k))
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prefix, validation.Required),
		validation.Field(&r.Key, validation.Required, validation.In(keys...)),
	)
}

// StatsConfig holds the ordered classification table.
type StatsConfig struct {
	Rules []StatsRule `yaml:"rules"`
}

// Validate validates the stats configuration.
func (c *StatsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Rules, validation.Required),
	)
}

// ValidationConfig selects optional validation passes.
type ValidationConfig struct {
	DateCheck string `yaml:"date_check"`
}

// Validate validates the validation configuration.
func (c *ValidationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DateCheck, validation.Required,
			validation.In(DateCheckNone, DateCheckContinuity, DateCheckFull)),
	)
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}
