// Package store persists the cleaned dataset to SQLite so later runs and
// ad-hoc queries can reuse it without re-cleaning the raw extract.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	case_number  TEXT PRIMARY KEY,
	town         TEXT NOT NULL,
	occurred_at  TEXT NOT NULL,
	hour         INTEGER NOT NULL,
	year         INTEGER NOT NULL,
	time_period  TEXT NOT NULL,
	substance    TEXT NOT NULL,
	cause        TEXT NOT NULL,
	run_id       TEXT NOT NULL,
	processed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incidents_town ON incidents(town);
CREATE INDEX IF NOT EXISTS idx_incidents_year ON incidents(year);
`

// SQLite writes cleaned incidents to a local database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveCleaned inserts the cleaned dataset in one transaction. Conflicting
// case numbers are ignored, matching the cleaner's first-seen dedup policy,
// so re-running over the same extract is idempotent.
func (s *SQLite) SaveCleaned(ctx context.Context, runID string, incidents []domain.Incident) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO incidents
			(case_number, town, occurred_at, hour, year, time_period, substance, cause, run_id, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_number) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, inc := range incidents {
		_, err := stmt.ExecContext(ctx,
			inc.CaseNumber,
			inc.Town,
			inc.OccurredAt.Format(time.RFC3339),
			inc.Hour,
			inc.Year,
			inc.TimePeriod,
			inc.Substance,
			inc.Cause,
			runID,
			inc.ProcessedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert case %s: %w", inc.CaseNumber, err)
		}
	}

	return tx.Commit()
}

// CountIncidents returns the number of stored incidents.
func (s *SQLite) CountIncidents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }
