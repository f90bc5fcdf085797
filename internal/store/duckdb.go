// Package store exports per-read metrics and run summaries to a DuckDB
// database for downstream analysis with SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/ahcm/longread-plots/internal/seqio"
	"github.com/ahcm/longread-plots/internal/stats"
)

// Store writes read metrics into a DuckDB database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New wraps an existing database handle. Used by Open and by tests.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Open opens (or creates) a DuckDB database at path.
// Use ":memory:" or the empty string for an in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return New(db, logger), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the metric tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS reads (
			read_id          VARCHAR,
			file             VARCHAR NOT NULL,
			length           INTEGER NOT NULL,
			mean_qscore      DOUBLE NOT NULL,
			channel          INTEGER,
			start_offset     DOUBLE,
			passes_filtering BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			run_id        VARCHAR NOT NULL,
			file          VARCHAR NOT NULL,
			reads         INTEGER NOT NULL,
			total_bases   BIGINT NOT NULL,
			min_length    INTEGER NOT NULL,
			max_length    INTEGER NOT NULL,
			mean_length   DOUBLE NOT NULL,
			median_length INTEGER NOT NULL,
			n50           INTEGER NOT NULL,
			mean_qscore   DOUBLE NOT NULL,
			passed        INTEGER NOT NULL,
			failed        INTEGER NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// InsertReads replaces the per-read metrics of file with the given set.
// All rows are written inside one transaction so a failed export never
// leaves a file half-written.
func (s *Store) InsertReads(ctx context.Context, file string, metrics []seqio.ReadMetrics) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reads WHERE file = ?`, file); err != nil {
		return fmt.Errorf("failed to clear previous rows for %s: %w", file, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reads (read_id, file, length, mean_qscore, channel, start_offset, passes_filtering)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range metrics {
		var channel any
		if m.Channel > 0 {
			channel = m.Channel
		}
		var offset any
		if m.StartOffset >= 0 {
			offset = m.StartOffset
		}
		if _, err := stmt.ExecContext(ctx, m.ID, file, m.Length, m.MeanQ, channel, offset, m.PassesFiltering); err != nil {
			return fmt.Errorf("failed to insert read %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Debug("exported reads", "file", file, "count", len(metrics))
	return nil
}

// InsertSummary records the per-file aggregate statistics under a fresh
// run identifier and returns that identifier.
func (s *Store) InsertSummary(ctx context.Context, file string, sum stats.Summary) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (run_id, file, reads, total_bases, min_length, max_length,
		 mean_length, median_length, n50, mean_qscore, passed, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, file, sum.Reads, sum.TotalBases, sum.MinLength, sum.MaxLength,
		sum.MeanLength, sum.MedianLength, sum.N50, sum.MeanQ, sum.Passed, sum.Failed)
	if err != nil {
		return "", fmt.Errorf("failed to insert summary for %s: %w", file, err)
	}
	return runID, nil
}
