package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-time-tracer/internal/analyzer"
	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/penwyp/go-time-tracer/internal/core/validation"
	"github.com/penwyp/go-time-tracer/internal/data/storage"
	"github.com/penwyp/go-time-tracer/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracer/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Configuration overrides
	configPath string
	dbPath     string
	timezone   string
	dateCheck  string

	// Cache related
	noCache bool
	reset   bool

	rootCmd = &cobra.Command{
		Use:   "go-time-tracer [command]",
		Short: "Personal time log converter and analyzer",
		Long: `go-time-tracer converts plain-text daily time logs into validated, structured
activity records, stores them in SQLite and renders period reports.

A source file holds one year. Each day starts with an MMDD line followed by
HHMM<description> event lines, each of which closes the activity that ended
at that time.

Examples:
  go-time-tracer validate ~/logs                      # Check every .txt file below ~/logs
  go-time-tracer convert 2025.txt -o 2025.json         # Emit structured day records
  go-time-tracer ingest ~/logs --strict                # Store days of error-free files only
  go-time-tracer report monthly 2025-01 --format typ   # Monthly report as Typst
  go-time-tracer report recent 2w --format table       # Last two weeks in the terminal
  go-time-tracer watch ~/logs                          # Re-validate files as they change`,
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime,
	}
)

// ErrValidationFailed is returned when the checked sources contain errors.
var ErrValidationFailed = errors.New("validation failed")

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath,
		"Configuration file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"SQLite database path (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone setting (e.g., Asia/Shanghai, UTC; overrides app.timezone)")
	rootCmd.PersistentFlags().StringVar(&dateCheck, "date-check", "",
		"Date continuity check (none, continuity, full; overrides validation.date_check)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Parse every file without the conversion cache")
	rootCmd.PersistentFlags().BoolVar(&reset, "reset", false,
		"Clear the conversion cache before running")
}

// runtimeEnv is the resolved configuration shared by every command.
type runtimeEnv struct {
	cfg      *config.Config
	location *time.Location
	mode     validation.DateCheckMode
}

var env *runtimeEnv

func initRuntime(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if timezone != "" {
		cfg.App.Timezone = timezone
	}
	if dateCheck != "" {
		cfg.Validation.DateCheck = dateCheck
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	// Determine log level based on debug flag
	logLevel := cfg.App.LogLevel
	if debug {
		logLevel = "debug"
	}
	logFile := ""
	if cfg.App.LogFile != "" {
		logFile = expandPath(cfg.App.LogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			logFile = ""
		}
	}
	if logFile == "" && !debug {
		util.SetLogger(nil)
	} else if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := util.InitializeTimeProvider(cfg.App.Timezone); err != nil {
		return err
	}
	mode, err := validation.ParseDateCheckMode(cfg.Validation.DateCheck)
	if err != nil {
		return err
	}

	if reset && cfg.App.CacheDir != "" {
		if err := clearCache(expandPath(cfg.App.CacheDir)); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	env = &runtimeEnv{
		cfg:      cfg,
		location: util.GetTimeProvider().Location(),
		mode:     mode,
	}
	util.LogDebugf("Runtime ready: timezone %s, date check %s, db %s", cfg.App.Timezone, mode, cfg.Storage.Path)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func newAnalyzer(paths []string) (*analyzer.Analyzer, error) {
	return analyzer.New(env.cfg, analyzer.Options{
		Paths:       paths,
		UseCache:    !noCache,
		Concurrency: env.cfg.App.Concurrency,
		DateCheck:   env.mode,
		Location:    env.location,
	})
}

func openStore() (*storage.SQLiteStore, error) {
	path := env.cfg.Storage.Path
	if path != ":memory:" {
		path = expandPath(path)
	}
	return storage.Open(path, env.location)
}

func expandPath(path string) string {
	path = config.ExpandPath(path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

func colorEnabled(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && formatter.IsTerminal(f)
}
