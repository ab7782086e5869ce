// Package journal keeps an optional record of tool runs and the GraphQL calls they make.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/raulc0399/arcane-kitchen/internal/appsync"
)

// Supported drivers
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run records a single tool invocation
type Run interface {
	appsync.CallRecorder
	ID() string
	Complete(ctx context.Context) error
	Fail(ctx context.Context, reason string) error
}

// Store opens runs
type Store interface {
	StartRun(ctx context.Context, script string, metadata map[string]interface{}) (Run, error)
	Close() error
}

// Open returns the store for driver. An empty driver or "none" yields a NoOpStore.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverNone:
		return NoOpStore{}, nil
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported journal driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening journal: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to journal: %w", err)
	}

	store := NewSQLStore(conn, driver)
	if err := store.InitSchema(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// NoOpStore discards everything
type NoOpStore struct{}

// StartRun returns a run that records nothing
func (NoOpStore) StartRun(ctx context.Context, script string, metadata map[string]interface{}) (Run, error) {
	return noOpRun{id: uuid.New().String()}, nil
}

// Close does nothing
func (NoOpStore) Close() error { return nil }

type noOpRun struct {
	id string
}

func (r noOpRun) ID() string { return r.id }

func (noOpRun) RecordCall(ctx context.Context, rec appsync.CallRecord) error { return nil }

func (noOpRun) Complete(ctx context.Context) error { return nil }

func (noOpRun) Fail(ctx context.Context, reason string) error { return nil }

// SQLStore writes runs and calls to Postgres or SQLite
type SQLStore struct {
	conn   *sql.DB
	driver string
	now    func() time.Time
}

// NewSQLStore wraps an open connection. driver selects the placeholder style and schema.
func NewSQLStore(conn *sql.DB, driver string) *SQLStore {
	return &SQLStore{conn: conn, driver: driver, now: time.Now}
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS journal_runs (
		run_id        TEXT PRIMARY KEY,
		script        TEXT NOT NULL,
		status        TEXT NOT NULL,
		started_at    TIMESTAMPTZ NOT NULL,
		completed_at  TIMESTAMPTZ,
		call_count    INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		metadata      JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS journal_calls (
		id             SERIAL PRIMARY KEY,
		run_id         TEXT NOT NULL REFERENCES journal_runs(run_id),
		operation      TEXT NOT NULL,
		operation_type TEXT NOT NULL,
		status_code    INTEGER NOT NULL,
		outcome        TEXT NOT NULL,
		elapsed_ms     BIGINT NOT NULL,
		error_message  TEXT,
		recorded_at    TIMESTAMPTZ NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS journal_runs (
		run_id        TEXT PRIMARY KEY,
		script        TEXT NOT NULL,
		status        TEXT NOT NULL,
		started_at    DATETIME NOT NULL,
		completed_at  DATETIME,
		call_count    INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		metadata      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS journal_calls (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id         TEXT NOT NULL REFERENCES journal_runs(run_id),
		operation      TEXT NOT NULL,
		operation_type TEXT NOT NULL,
		status_code    INTEGER NOT NULL,
		outcome        TEXT NOT NULL,
		elapsed_ms     INTEGER NOT NULL,
		error_message  TEXT,
		recorded_at    DATETIME NOT NULL
	)`,
}

// InitSchema creates the journal tables if they are missing
func (s *SQLStore) InitSchema(ctx context.Context) error {
	schema := postgresSchema
	if s.driver == DriverSQLite {
		schema = sqliteSchema
	}
	for _, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error creating journal schema: %w", err)
		}
	}
	return nil
}

// StartRun inserts a running row and returns its handle
func (s *SQLStore) StartRun(ctx context.Context, script string, metadata map[string]interface{}) (Run, error) {
	runID := uuid.New().String()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("error marshaling run metadata: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, s.rebind(`
		INSERT INTO journal_runs (run_id, script, status, started_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`),
		runID, script, StatusRunning, s.now(), string(metadataJSON))
	if err != nil {
		return nil, fmt.Errorf("error starting run: %w", err)
	}

	return &sqlRun{store: s, id: runID}, nil
}

// Close closes the connection
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

var placeholder = regexp.MustCompile(`\$\d+`)

// rebind converts $N placeholders to ? for SQLite. Arguments are always passed in order.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

type sqlRun struct {
	store *SQLStore
	id    string

	mu    sync.Mutex
	calls int
}

func (r *sqlRun) ID() string { return r.id }

// RecordCall inserts one call row
func (r *sqlRun) RecordCall(ctx context.Context, rec appsync.CallRecord) error {
	var errMsg *string
	if rec.Error != "" {
		msg := rec.Error
		errMsg = &msg
	}

	_, err := r.store.conn.ExecContext(ctx, r.store.rebind(`
		INSERT INTO journal_calls (run_id, operation, operation_type, status_code, outcome, elapsed_ms, error_message, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		r.id, rec.Operation, rec.OperationType, rec.StatusCode, rec.Outcome, rec.Elapsed.Milliseconds(), errMsg, r.store.now())
	if err != nil {
		return fmt.Errorf("error recording call: %w", err)
	}

	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return nil
}

// Complete marks the run completed
func (r *sqlRun) Complete(ctx context.Context) error {
	return r.finish(ctx, StatusCompleted, nil)
}

// Fail marks the run failed with reason
func (r *sqlRun) Fail(ctx context.Context, reason string) error {
	reason = strings.TrimSpace(reason)
	return r.finish(ctx, StatusFailed, &reason)
}

func (r *sqlRun) finish(ctx context.Context, status string, reason *string) error {
	r.mu.Lock()
	calls := r.calls
	r.mu.Unlock()

	_, err := r.store.conn.ExecContext(ctx, r.store.rebind(`
		UPDATE journal_runs
		SET completed_at = $1, status = $2, call_count = $3, error_message = $4
		WHERE run_id = $5`),
		r.store.now(), status, calls, reason, r.id)
	if err != nil {
		return fmt.Errorf("error finishing run: %w", err)
	}
	return nil
}
