package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/groupsched/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// timeFormat is fixed width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Runs ---

// SaveRun stores a run summary together with its intervals, final registry
// and group snapshots in one transaction. An empty run.ID is assigned with
// NewRunID and a zero CreatedAt with the current time.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.RunSummary, res *model.Result) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Timeline = res.Timeline
	run.Tasks = len(res.Schedule)
	run.Groups = len(res.Groups)
	run.Passes = res.Passes
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	timelineJSON, err := json.Marshal(run.Timeline)
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}
	groupsJSON, err := json.Marshal(res.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, timeline, tasks, group_count, passes, created_at, group_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, string(timelineJSON), run.Tasks, run.Groups, run.Passes,
		run.CreatedAt.UTC().Format(timeFormat), string(groupsJSON),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	ivStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO intervals (run_id, task_id, task_name, seq, state, start, finish)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ivStmt.Close()

	seq := 0
	for _, ts := range res.Schedule {
		for _, iv := range ts.Intervals {
			if _, err := ivStmt.ExecContext(ctx, run.ID, string(ts.Task.ID), ts.Task.DisplayName(),
				seq, string(iv.State), iv.Start, iv.End); err != nil {
				return fmt.Errorf("insert interval: %w", err)
			}
			seq++
		}
	}

	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO registry_entries (run_id, task_id, seq, state, deadline, registered_at, memberships)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer entryStmt.Close()

	for i, e := range res.Registry {
		groups, err := json.Marshal(e.Groups)
		if err != nil {
			return fmt.Errorf("marshal entry groups: %w", err)
		}
		if _, err := entryStmt.ExecContext(ctx, run.ID, string(e.TaskID), i,
			string(e.State), e.Deadline, e.RegisteredAt, string(groups)); err != nil {
			return fmt.Errorf("insert registry entry: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun returns the run with the given id, or nil if it does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.RunSummary, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, scenario, timeline, tasks, group_count, passes, created_at
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns runs newest first, plus the total count matching opts.
func (s *SQLiteStore) ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.RunSummary, int, error) {
	opts.Clamp()
	s.logger.Debug("sql", "op", "list", "table", "runs", "limit", opts.Limit, "offset", opts.Offset)

	var whereClauses []string
	var countArgs []any
	if opts.Scenario != "" {
		whereClauses = append(whereClauses, "scenario = ?")
		countArgs = append(countArgs, opts.Scenario)
	}
	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`+whereSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT id, scenario, timeline, tasks, group_count, passes, created_at
		FROM runs` + whereSQL + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	listArgs := append(countArgs, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*model.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*model.RunSummary, error) {
	var run model.RunSummary
	var timelineJSON, createdAt string
	if err := sc.Scan(&run.ID, &run.Scenario, &timelineJSON,
		&run.Tasks, &run.Groups, &run.Passes, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(timelineJSON), &run.Timeline); err != nil {
		return nil, fmt.Errorf("unmarshal timeline: %w", err)
	}
	run.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return &run, nil
}

// --- Run contents ---

// ListIntervals returns the stored Gantt rows of a run in recording order,
// optionally restricted to the given states.
func (s *SQLiteStore) ListIntervals(ctx context.Context, runID string, states ...model.TaskState) ([]model.ScheduleRow, error) {
	s.logger.Debug("sql", "op", "list", "table", "intervals", "run_id", runID, "states", states)

	query := `SELECT task_id, task_name, state, start, finish FROM intervals WHERE run_id = ?`
	args := []any{runID}
	if len(states) > 0 {
		placeholders := make([]string, len(states))
		for i, st := range states {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += ` AND state IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleRow
	for rows.Next() {
		var r model.ScheduleRow
		var taskID, state string
		if err := rows.Scan(&taskID, &r.Task, &state, &r.Start, &r.Finish); err != nil {
			return nil, err
		}
		r.TaskID = model.TaskID(taskID)
		r.State = model.TaskState(state)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListEntries returns the final registry of a run in catalog order.
func (s *SQLiteStore) ListEntries(ctx context.Context, runID string) ([]model.Entry, error) {
	s.logger.Debug("sql", "op", "list", "table", "registry_entries", "run_id", runID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, state, deadline, registered_at, memberships
		 FROM registry_entries WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		var e model.Entry
		var taskID, state, groupsJSON string
		if err := rows.Scan(&taskID, &state, &e.Deadline, &e.RegisteredAt, &groupsJSON); err != nil {
			return nil, err
		}
		e.TaskID = model.TaskID(taskID)
		e.State = model.TaskState(state)
		if err := json.Unmarshal([]byte(groupsJSON), &e.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal entry groups: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListGroups returns the final group snapshots of a run. A missing run
// yields an empty list.
func (s *SQLiteStore) ListGroups(ctx context.Context, runID string) ([]model.GroupSnapshot, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "column", "group_state", "run_id", runID)

	var groupsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT group_state FROM runs WHERE id = ?`, runID).Scan(&groupsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var groups []model.GroupSnapshot
	if err := json.Unmarshal([]byte(groupsJSON), &groups); err != nil {
		return nil, fmt.Errorf("unmarshal groups: %w", err)
	}
	return groups, nil
}
