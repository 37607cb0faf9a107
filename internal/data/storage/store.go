package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/penwyp/go-time-tracer/internal/core/model"
)

// Store defines the persistence operations of derived days.
type Store interface {
	SaveDays(ctx context.Context, days []*model.DailyLog) (int, error)
	GetDay(ctx context.Context, date time.Time) (*model.DailyLog, error)
	GetDays(ctx context.Context, from, to time.Time) ([]*model.DailyLog, error)
	GetAggregatedProjectStats(ctx context.Context, from, to time.Time) ([]model.ProjectStat, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Verify *SQLiteStore satisfies Store at compile time.
var _ Store = (*SQLiteStore)(nil)

// Stats summarizes the stored data.
type Stats struct {
	Days       int
	Activities int
	FirstDate  string
	LastDate   string
	Version    int
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	location *time.Location

	getDay        *sql.Stmt
	getActivities *sql.Stmt
}

// Open opens (or creates) the database at path, applies migrations and
// returns a ready store. ":memory:" opens a private in-memory database.
func Open(path string, loc *time.Location) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("storage: create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	store, err := NewSQLiteStore(db, loc)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore creates a store from an already opened and migrated database.
func NewSQLiteStore(db *sql.DB, loc *time.Location) (*SQLiteStore, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &SQLiteStore{db: db, location: loc}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("storage: prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getDay, err = s.db.Prepare(`SELECT ` + dayColumns() + ` FROM days WHERE date = ?`)
	if err != nil {
		return err
	}

	s.getActivities, err = s.db.Prepare(`
		SELECT logical_id, date, start_timestamp, end_timestamp, start_time, end_time,
		       project_path, duration_seconds, remark
		FROM activities
		WHERE date BETWEEN ? AND ?
		ORDER BY date, start_timestamp, logical_id
	`)
	return err
}

// Close releases prepared statements and the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.getDay, s.getActivities} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

func dayColumns() string {
	return "date, status, sleep, getup, remark, is_continuation, source, " + strings.Join(statColumns, ", ")
}

// renumberActivities gives every stored activity its logical id from 1 in
// (date, start_timestamp) order, so ids stay unique across partial saves.
const renumberActivities = `
	UPDATE activities SET logical_id = (
		SELECT r.n FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY date, start_timestamp, id) AS n FROM activities
		) AS r
		WHERE r.id = activities.id
	)
`

// SaveDays replaces each day and its activities in one transaction and
// returns the number of days written. Logical ids of all stored activities
// are renumbered in date order before commit.
func (s *SQLiteStore) SaveDays(ctx context.Context, days []*model.DailyLog) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 9+len(statColumns)), ", ")
	insertDay, err := tx.PrepareContext(ctx, `INSERT INTO days (date, year, month, status, sleep, getup, remark, is_continuation, source, `+
		strings.Join(statColumns, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return 0, fmt.Errorf("storage: prepare day insert: %w", err)
	}
	defer insertDay.Close()

	insertActivity, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (logical_id, date, start_timestamp, end_timestamp, start_time, end_time,
		                        project_path, duration_seconds, remark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("storage: prepare activity insert: %w", err)
	}
	defer insertActivity.Close()

	for _, d := range days {
		date := d.DateString()
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE date = ?`, date); err != nil {
			return 0, fmt.Errorf("storage: clear activities %s: %w", date, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM days WHERE date = ?`, date); err != nil {
			return 0, fmt.Errorf("storage: clear day %s: %w", date, err)
		}

		args := []interface{}{date, d.Date.Year(), int(d.Date.Month()), d.Status(), d.SleepFlag(),
			d.Getup, d.Remark(), boolInt(d.IsContinuation), d.Source}
		for _, k := range model.StatKeys {
			args = append(args, d.Stats.Get(k))
		}
		if _, err := insertDay.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("storage: insert day %s: %w", date, err)
		}

		for _, a := range d.Activities {
			if _, err := insertActivity.ExecContext(ctx, a.LogicalID, date, a.StartTimestamp, a.EndTimestamp,
				a.StartTime, a.EndTime, a.ProjectPath, a.DurationSeconds, a.Remark); err != nil {
				return 0, fmt.Errorf("storage: insert activity %s %s: %w", date, a.StartTime, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, renumberActivities); err != nil {
		return 0, fmt.Errorf("storage: renumber activities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: commit: %w", err)
	}
	return len(days), nil
}

// GetDay returns one stored day with its activities, or model.ErrNotFound.
func (s *SQLiteStore) GetDay(ctx context.Context, date time.Time) (*model.DailyLog, error) {
	key := date.Format(model.DateLayout)
	d, err := s.scanDay(s.getDay.QueryRowContext(ctx, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: day %s: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get day %s: %w", key, err)
	}
	if err := s.attachActivities(ctx, key, key, map[string]*model.DailyLog{key: d}); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDays returns the stored days between from and to inclusive, ordered by date.
func (s *SQLiteStore) GetDays(ctx context.Context, from, to time.Time) ([]*model.DailyLog, error) {
	lo, hi := from.Format(model.DateLayout), to.Format(model.DateLayout)
	rows, err := s.db.QueryContext(ctx, `SELECT `+dayColumns()+` FROM days WHERE date BETWEEN ? AND ? ORDER BY date`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("storage: get days: %w", err)
	}
	defer rows.Close()

	var days []*model.DailyLog
	byDate := make(map[string]*model.DailyLog)
	for rows.Next() {
		d, err := s.scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan day: %w", err)
		}
		days = append(days, d)
		byDate[d.DateString()] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate days: %w", err)
	}

	if err := s.attachActivities(ctx, lo, hi, byDate); err != nil {
		return nil, err
	}
	return days, nil
}

// GetAggregatedProjectStats sums activity durations per project path between
// from and to inclusive, longest first.
func (s *SQLiteStore) GetAggregatedProjectStats(ctx context.Context, from, to time.Time) ([]model.ProjectStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_path, SUM(duration_seconds) AS total
		FROM activities
		WHERE date BETWEEN ? AND ?
		GROUP BY project_path
		ORDER BY total DESC, project_path
	`, from.Format(model.DateLayout), to.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("storage: aggregate project stats: %w", err)
	}
	defer rows.Close()

	var out []model.ProjectStat
	for rows.Next() {
		var ps model.ProjectStat
		if err := rows.Scan(&ps.Path, &ps.Duration); err != nil {
			return nil, fmt.Errorf("storage: scan project stat: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// GetStats returns row counts, the stored date span and the schema version.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	var (
		st          Stats
		first, last sql.NullString
	)
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(date), MAX(date) FROM days`).Scan(&st.Days, &first, &last); err != nil {
		return nil, fmt.Errorf("storage: count days: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&st.Activities); err != nil {
		return nil, fmt.Errorf("storage: count activities: %w", err)
	}
	v, err := NewMigrationRunner(s.db).Version()
	if err != nil {
		return nil, fmt.Errorf("storage: schema version: %w", err)
	}
	st.FirstDate, st.LastDate, st.Version = first.String, last.String, v
	return &st, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanDay(row rowScanner) (*model.DailyLog, error) {
	var (
		date, getup, remark, source string
		status, sleep, cont         int
	)
	values := make([]int64, len(statColumns))
	dest := []interface{}{&date, &status, &sleep, &getup, &remark, &cont, &source}
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	t, err := time.ParseInLocation(model.DateLayout, date, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidDate, date)
	}
	d := &model.DailyLog{
		Date:           t,
		Getup:          getup,
		IsContinuation: cont == 1,
		EndsWithSleep:  sleep == 1,
		Source:         source,
	}
	if remark != "" {
		d.GeneralRemarks = strings.Split(remark, "\n")
	}
	for i, k := range model.StatKeys {
		d.Stats.Add(k, values[i])
	}
	return d, nil
}

func (s *SQLiteStore) attachActivities(ctx context.Context, lo, hi string, byDate map[string]*model.DailyLog) error {
	rows, err := s.getActivities.QueryContext(ctx, lo, hi)
	if err != nil {
		return fmt.Errorf("storage: get activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a    model.Activity
			date string
		)
		if err := rows.Scan(&a.LogicalID, &date, &a.StartTimestamp, &a.EndTimestamp, &a.StartTime, &a.EndTime,
			&a.ProjectPath, &a.DurationSeconds, &a.Remark); err != nil {
			return fmt.Errorf("storage: scan activity: %w", err)
		}
		if d, ok := byDate[date]; ok {
			d.Activities = append(d.Activities, a)
		}
	}
	return rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
