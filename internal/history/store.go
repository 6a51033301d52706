package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one finished compression recorded for later review.
type Entry struct {
	ID                  int64     `json:"id"`
	JobID               string    `json:"jobId"`
	InputPath           string    `json:"inputPath"`
	OutputPath          string    `json:"outputPath"`
	Preset              string    `json:"preset"`
	OriginalSizeBytes   int64     `json:"originalSizeBytes"`
	CompressedSizeBytes int64     `json:"compressedSizeBytes"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ReductionPercent derives the saved percentage for display.
func (e Entry) ReductionPercent() float64 {
	if e.OriginalSizeBytes <= 0 {
		return 0
	}
	return 100 - (float64(e.CompressedSizeBytes)/float64(e.OriginalSizeBytes))*100
}

// Store manages compression history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing database location.
func (s *Store) Path() string {
	return s.path
}

// Append records one finished compression and returns the stored entry.
func (s *Store) Append(ctx context.Context, entry Entry) (Entry, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO compressions (
            job_id, input_path, output_path, preset,
            original_size_bytes, compressed_size_bytes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.JobID,
		entry.InputPath,
		entry.OutputPath,
		entry.Preset,
		entry.OriginalSizeBytes,
		entry.CompressedSizeBytes,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return entry, nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, job_id, input_path, output_path, preset,
            original_size_bytes, compressed_size_bytes, created_at
        FROM compressions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes all recorded entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM compressions`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// scanEntry maps one row to an Entry and parses its timestamp.
func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var createdAt string
	if err := rows.Scan(
		&entry.ID,
		&entry.JobID,
		&entry.InputPath,
		&entry.OutputPath,
		&entry.Preset,
		&entry.OriginalSizeBytes,
		&entry.CompressedSizeBytes,
		&createdAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse history timestamp %q: %w", createdAt, err)
	}
	entry.CreatedAt = parsed
	return entry, nil
}
