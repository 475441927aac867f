// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite history of completed exports.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

const defaultLimit = 20

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			process_id INTEGER NOT NULL,
			process_title TEXT,
			publication_code TEXT NOT NULL,
			publication_date TEXT NOT NULL,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			exported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_process_id ON exports(process_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_code_date ON exports(publication_code, publication_date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends an export to the journal.
func (s *Store) Record(ctx context.Context, rec types.ExportRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (process_id, process_title, publication_code, publication_date, source, destination, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ProcessID, rec.ProcessTitle, rec.PublicationCode, rec.PublicationDate,
		rec.Source, rec.Destination, rec.ExportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording export of process %d: %w", rec.ProcessID, err)
	}
	return nil
}

// Recent returns the most recent exports, newest first. A limit of zero or
// less means the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.ExportRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.query(ctx,
		`SELECT process_id, process_title, publication_code, publication_date, source, destination, exported_at
		 FROM exports ORDER BY rowid DESC LIMIT ?`, limit)
}

// ByProcess returns every export of one process, oldest first.
func (s *Store) ByProcess(ctx context.Context, processID int) ([]types.ExportRecord, error) {
	return s.query(ctx,
		`SELECT process_id, process_title, publication_code, publication_date, source, destination, exported_at
		 FROM exports WHERE process_id = ? ORDER BY rowid`, processID)
}

// All returns every export, oldest first.
func (s *Store) All(ctx context.Context) ([]types.ExportRecord, error) {
	return s.query(ctx,
		`SELECT process_id, process_title, publication_code, publication_date, source, destination, exported_at
		 FROM exports ORDER BY rowid`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []types.ExportRecord
	for rows.Next() {
		var (
			rec        types.ExportRecord
			title      sql.NullString
			exportedAt string
		)
		if err := rows.Scan(&rec.ProcessID, &title, &rec.PublicationCode, &rec.PublicationDate,
			&rec.Source, &rec.Destination, &exportedAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		rec.ProcessTitle = title.String
		if t, err := time.Parse(time.RFC3339Nano, exportedAt); err == nil {
			rec.ExportedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
