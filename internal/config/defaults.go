package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Timezone:    "Local",
			Concurrency: 0,
			CacheDir:    "~/.go-time-tracer/cache",
			LogLevel:    "info",
			LogFile:     "~/.go-time-tracer/logs/app.log",
		},
		Parser: ParserConfig{
			RemarkPrefix:          "r",
			InlineRemarkDelimiter: "//",
			PathSeparator:         "_",
			WakeKeywords:          []string{"wake", "getup"},
			TextMappings:          DefaultTextMappings(),
			DurationMappings: map[string]DurationRules{
				"toilet": {
					{LessThanMinutes: 10, Value: "routine_toilet_quick"},
				},
				"wash": {
					{LessThanMinutes: 15, Value: "routine_grooming_quick"},
				},
			},
		},
		Stats: StatsConfig{
			Rules: DefaultStatsRules(),
		},
		Validation: ValidationConfig{
			DateCheck: DateCheckContinuity,
		},
		Storage: StorageConfig{
			Path: "~/.go-time-tracer/time_data.db",
		},
	}
}

// DefaultTextMappings maps event keywords to canonical project paths.
func DefaultTextMappings() map[string]string {
	return map[string]string{
		"breakfast": "meal_breakfast",
		"lunch":     "meal_lunch",
		"dinner":    "meal_dinner",
		"wash":      "routine_grooming",
		"shower":    "routine_grooming_shower",
		"toilet":    "routine_toilet",
		"nap":       "sleep_day",
		"run":       "exercise_cardio_run",
		"cycle":     "exercise_cardio_cycle",
		"gym":       "exercise_anaerobic_gym",
		"game":      "recreation_game",
		"bilibili":  "recreation_bilibili",
		"zhihu":     "recreation_zhihu",
		"douyin":    "recreation_douyin",
		"math":      "study_math",
		"english":   "study_language_english",
		"japanese":  "study_language_japanese",
		"code":      "study_programming",
		"work":      "work",
		"commute":   "routine_commute",
	}
}

// DefaultStatsRules returns the built-in classification table.
func DefaultStatsRules() []StatsRule {
	return []StatsRule{
		{Prefix: "sleep", Key: "sleep_total"},
		{Prefix: "sleep_night", Key: "sleep_night"},
		{Prefix: "sleep_day", Key: "sleep_day"},
		{Prefix: "exercise", Key: "total_exercise"},
		{Prefix: "exercise_cardio", Key: "cardio"},
		{Prefix: "exercise_anaerobic", Key: "anaerobic"},
		{Prefix: "routine_grooming", Key: "grooming"},
		{Prefix: "routine_toilet", Key: "toilet"},
		{Prefix: "recreation", Key: "recreation"},
		{Prefix: "recreation_game", Key: "gaming"},
		{Prefix: "recreation_zhihu", Key: "recreation_zhihu"},
		{Prefix: "recreation_bilibili", Key: "recreation_bilibili"},
		{Prefix: "recreation_douyin", Key: "recreation_douyin"},
		{Prefix: "study", Key: "study"},
	}
}
