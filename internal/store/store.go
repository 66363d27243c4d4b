// Package store is the optional match archive: generated matches recorded
// into SQLite so they can be listed and replayed by downstream tooling.
// Only the CLI uses it; the simulation engine never touches storage.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a SQLite database holding archived matches. WAL mode allows
// concurrent readers while a generation run writes.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at the given path, applying pragmas and
// the schema. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// ArchivedMatch is one stored match, log text included only on point reads.
type ArchivedMatch struct {
	ID        string
	Map       string
	Format    string
	Seed      int64
	TeamA     string
	TeamB     string
	ScoreA    int
	ScoreB    int
	Status    string
	Rounds    int
	Digest    string
	LogText   string
	CreatedAt time.Time
}

// Save archives one generated match. Saving the same match ID twice is a
// no-op, so reruns of the same generation are idempotent.
func (s *Store) Save(ctx context.Context, m ArchivedMatch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches
		(id, map, format, seed, team_a, team_b, score_a, score_b, status, rounds, digest, log_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID, m.Map, m.Format, m.Seed, m.TeamA, m.TeamB,
		m.ScoreA, m.ScoreB, m.Status, m.Rounds, m.Digest, m.LogText,
	)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

// List returns archived matches newest-first, without log text.
func (s *Store) List(ctx context.Context, limit int) ([]ArchivedMatch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, map, format, seed, team_a, team_b, score_a, score_b, status, rounds, digest, created_at
		FROM matches ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []ArchivedMatch
	for rows.Next() {
		var m ArchivedMatch
		var created string
		if err := rows.Scan(&m.ID, &m.Map, &m.Format, &m.Seed, &m.TeamA, &m.TeamB,
			&m.ScoreA, &m.ScoreB, &m.Status, &m.Rounds, &m.Digest, &created); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get loads one archived match by ID, log text included. Returns
// sql.ErrNoRows when absent.
func (s *Store) Get(ctx context.Context, id string) (*ArchivedMatch, error) {
	var m ArchivedMatch
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, map, format, seed, team_a, team_b, score_a, score_b, status, rounds, digest, log_text, created_at
		FROM matches WHERE id = ?
	`, id).Scan(&m.ID, &m.Map, &m.Format, &m.Seed, &m.TeamA, &m.TeamB,
		&m.ScoreA, &m.ScoreB, &m.Status, &m.Rounds, &m.Digest, &m.LogText, &created)
	if err != nil {
		return nil, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &m, nil
}
