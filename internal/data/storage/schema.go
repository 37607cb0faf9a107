package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// statColumns are the per-accumulator columns of the days table, named after
// the stat keys.
var statColumns = func() []string {
	cols := make([]string, 0, len(model.StatKeys))
	for _, k := range model.StatKeys {
		cols = append(cols, string(k))
	}
	return cols
}()

// migrateV001 creates the days and activities tables.
func migrateV001(tx *sql.Tx) error {
	var stats strings.Builder
	for _, c := range statColumns {
		fmt.Fprintf(&stats, ",\n\t\t\t%s INTEGER NOT NULL DEFAULT 0", c)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS days (
			date            TEXT PRIMARY KEY,
			year            INTEGER NOT NULL,
			month           INTEGER NOT NULL,
			status          INTEGER NOT NULL DEFAULT 0,
			sleep           INTEGER NOT NULL DEFAULT 0,
			getup           TEXT NOT NULL DEFAULT '',
			remark          TEXT NOT NULL DEFAULT '',
			is_continuation INTEGER NOT NULL DEFAULT 0,
			source          TEXT NOT NULL DEFAULT ''` + stats.String() + `
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			logical_id       INTEGER NOT NULL,
			date             TEXT NOT NULL REFERENCES days(date) ON DELETE CASCADE,
			start_timestamp  INTEGER NOT NULL,
			end_timestamp    INTEGER NOT NULL,
			start_time       TEXT NOT NULL,
			end_time         TEXT NOT NULL,
			project_path     TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
			remark           TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_days_year_month ON days(year, month)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateV002 indexes activities for the aggregated project query.
func migrateV002(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_activities_date_path ON activities(date, project_path)`)
	return err
}
