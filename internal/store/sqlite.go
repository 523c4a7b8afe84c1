package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/workstatus/internal/model"
)

// SQLiteStore implements the Journal interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordQuery appends a query outcome to the journal.
func (s *SQLiteStore) RecordQuery(ctx context.Context, rec model.QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO queries (id, kind, target, outcome, error, duration_ms, created_at)
		VALUES (:id, :kind, :target, :outcome, :error, :duration_ms, :created_at)`,
		rec,
	)
	if err != nil {
		return fmt.Errorf("recording %s query for %s: %w", rec.Kind, rec.Target, err)
	}
	return nil
}

// RecordSoftFailure appends a degraded lookup to the journal.
func (s *SQLiteStore) RecordSoftFailure(ctx context.Context, rec model.SoftFailureRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO soft_failures (id, operation, target, message, created_at)
		VALUES (:id, :operation, :target, :message, :created_at)`,
		rec,
	)
	if err != nil {
		return fmt.Errorf("recording soft failure for %s: %w", rec.Operation, err)
	}
	return nil
}

// RecentQueries returns the newest journaled queries first.
func (s *SQLiteStore) RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	if limit < 1 {
		limit = 50
	}

	var recs []model.QueryRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT id, kind, target, outcome, error, duration_ms, created_at
		FROM queries
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent queries: %w", err)
	}
	return recs, nil
}

// RecentSoftFailures returns the newest soft failures first.
func (s *SQLiteStore) RecentSoftFailures(ctx context.Context, limit int) ([]model.SoftFailureRecord, error) {
	if limit < 1 {
		limit = 50
	}

	var recs []model.SoftFailureRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT id, operation, target, message, created_at
		FROM soft_failures
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent soft failures: %w", err)
	}
	return recs, nil
}

// Prune deletes journal entries older than before and reports how many
// rows were removed across both tables.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, table := range []string{"queries", "soft_failures"} {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE created_at < ?", before.UTC())
		if err != nil {
			return 0, fmt.Errorf("pruning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return total, nil
}
