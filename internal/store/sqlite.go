package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mfigueiredo/ponto/internal/domain"
)

//go:embed schema.sql
var schema string

// Store handles database operations for time entries
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema
// exists. Called once at startup; the handle is shared until Close.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new entry keyed by its id and echoes it back. Duplicate
// ids and storage failures surface as ErrStoreWrite.
func (s *Store) Create(e domain.TimeEntry) (domain.TimeEntry, error) {
	_, err := s.db.Exec(
		"INSERT INTO time_entries (id, date, hour, created_at, file_path) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Date, e.Hour, formatTime(e.CreatedAt), e.FilePath,
	)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("%w: insert entry: %w", domain.ErrStoreWrite, err)
	}
	return e, nil
}

// Get retrieves an entry by id
func (s *Store) Get(id string) (domain.TimeEntry, error) {
	row := s.db.QueryRow(
		"SELECT id, date, hour, created_at, file_path FROM time_entries WHERE id = ?",
		id,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TimeEntry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return e, err
}

// GetAll returns every entry, most recent first
func (s *Store) GetAll() ([]domain.TimeEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, date, hour, created_at, file_path FROM time_entries ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list entries: %w", domain.ErrStoreRead, err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// UpdatePatch selects which fields of an entry to rewrite. Nil fields are
// left untouched.
type UpdatePatch struct {
	ID        string
	Date      *string
	Hour      *string
	FilePath  *string
	CreatedAt *time.Time
}

// Update rewrites the supplied fields of the entry identified by p.ID.
// A patch with no fields set succeeds without touching the database;
// an unknown id is ErrStoreWrite.
func (s *Store) Update(p UpdatePatch) error {
	var sets []string
	var args []any

	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *p.Date)
	}
	if p.Hour != nil {
		sets = append(sets, "hour = ?")
		args = append(args, *p.Hour)
	}
	if p.FilePath != nil {
		sets = append(sets, "file_path = ?")
		args = append(args, *p.FilePath)
	}
	if p.CreatedAt != nil {
		sets = append(sets, "created_at = ?")
		args = append(args, formatTime(*p.CreatedAt))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, p.ID)

	res, err := s.db.Exec(
		"UPDATE time_entries SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("%w: update entry %s: %w", domain.ErrStoreWrite, p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update entry %s: %w", domain.ErrStoreWrite, p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: update entry %s: no such id", domain.ErrStoreWrite, p.ID)
	}
	return nil
}

// Delete removes the entry. Deleting an id that does not exist is not an
// error.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM time_entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: delete entry %s: %w", domain.ErrStoreWrite, id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry maps one row to a TimeEntry. Timestamp parsing for the whole
// store lives here.
func scanEntry(row scanner) (domain.TimeEntry, error) {
	var e domain.TimeEntry
	var created string
	if err := row.Scan(&e.ID, &e.Date, &e.Hour, &created, &e.FilePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimeEntry{}, err
		}
		return domain.TimeEntry{}, fmt.Errorf("%w: scan entry: %w", domain.ErrStoreRead, err)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("%w: parse created_at %q: %w", domain.ErrStoreRead, created, err)
	}
	e.CreatedAt = t
	return e, nil
}

// formatTime serializes timestamps for the created_at column. RFC3339 in
// UTC keeps the column lexicographically ordered and loses nothing down to
// the second.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
