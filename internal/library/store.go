// Package library keeps named prompt files in a SQLite database.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/prompt"
)

// ErrNotFound is returned when no prompt file has the requested name.
var ErrNotFound = errors.New("prompt file not found")

// Entry describes one stored prompt file.
type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Profile   options.Profile `json:"profile"`
	Records   int             `json:"records"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store persists prompt files. Records are stored in their serialized text
// form and reparsed on read.
type Store struct {
	db *sql.DB
}

// Open creates or opens the library database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS prompt_files (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			profile     TEXT NOT NULL,
			body        TEXT NOT NULL,
			records     INTEGER NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores records under name, replacing any earlier file with that name.
// The ID and creation time of an existing entry are kept.
func (s *Store) Put(ctx context.Context, name string, profile options.Profile, records []prompt.Record) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, fmt.Errorf("prompt file name is required")
	}

	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339Nano)
	body := prompt.Serialize(records)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_files (id, name, profile, body, records, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			profile = excluded.profile,
			body = excluded.body,
			records = excluded.records,
			updated_at = excluded.updated_at
	`, uuid.New().String(), name, string(profile), body, len(records), nowStr, nowStr)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to store prompt file %s: %w", name, err)
	}

	entry, _, err := s.load(ctx, name)
	return entry, err
}

// Get loads the named prompt file and reparses it with its stored profile.
func (s *Store) Get(ctx context.Context, name string) (Entry, []prompt.Record, error) {
	entry, body, err := s.load(ctx, strings.TrimSpace(name))
	if err != nil {
		return Entry{}, nil, err
	}
	return entry, prompt.Parse(body, entry.Profile), nil
}

// List returns every entry ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, profile, records, created_at, updated_at
		FROM prompt_files
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan, nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompt files: %w", err)
	}
	return entries, nil
}

// Delete removes the named prompt file.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompt_files WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to delete prompt file %s: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *Store) load(ctx context.Context, name string) (Entry, string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, profile, records, created_at, updated_at, body
		FROM prompt_files
		WHERE name = ?
	`, name)

	var body string
	entry, err := scanEntry(row.Scan, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, "", err
	}
	return entry, body, nil
}

func scanEntry(scan func(dest ...any) error, body *string) (Entry, error) {
	var (
		entry              Entry
		profile            string
		createdAt, updated string
	)
	dest := []any{&entry.ID, &entry.Name, &profile, &entry.Records, &createdAt, &updated}
	if body != nil {
		dest = append(dest, body)
	}
	if err := scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan prompt file: %w", err)
	}

	p, err := options.ParseProfile(profile)
	if err != nil {
		p = options.Generation
	}
	entry.Profile = p
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return entry, nil
}
