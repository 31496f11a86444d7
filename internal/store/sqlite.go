// Package store persists exported documents in SQLite keyed by filename
package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nainya/doctree/pkg/docformat"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a document name has no stored entry.
var ErrNotFound = errors.New("document not found")

// Store handles database operations for saved documents.
type Store struct {
	db *sql.DB
}

// Info summarizes one stored document without its body.
type Info struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Sections  int       `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats aggregates store-wide counters.
type Stats struct {
	Documents int64 `json:"documents"`
	Sections  int64 `json:"sections"`
}

// Open creates a Store backed by the database at dbPath, initializing the
// schema if needed. Use ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores an encoded export under name, replacing any previous version.
// The creation timestamp of an existing entry is preserved.
func (s *Store) Put(name string, ex *docformat.Export) error {
	body, err := docformat.Encode(ex)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC()

	_, err = s.db.Exec(`
		INSERT INTO documents (name, title, body, sections, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			sections = excluded.sections,
			updated_at = excluded.updated_at
	`, name, ex.Document.Title, string(body), ex.Metadata.TotalSections, now, now)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get retrieves and decodes a stored document by name.
func (s *Store) Get(name string) (*docformat.Export, error) {
	body, err := s.GetRaw(name)
	if err != nil {
		return nil, err
	}
	ex, err := docformat.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode document %q: %w", name, err)
	}
	return ex, nil
}

// GetRaw retrieves the stored JSON body without decoding it.
func (s *Store) GetRaw(name string) ([]byte, error) {
	var body string
	err := s.db.QueryRow(
		"SELECT body FROM documents WHERE name = ?", name,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return []byte(body), nil
}

// List returns summaries of all stored documents, most recently updated
// first.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`
		SELECT name, title, sections, created_at, updated_at
		FROM documents ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Name, &info.Title, &info.Sections,
			&info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a stored document by name.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns document and section totals across the store.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(sections), 0) FROM documents",
	).Scan(&st.Documents, &st.Sections)
	if err != nil {
		return Stats{}, fmt.Errorf("store stats: %w", err)
	}
	return st, nil
}
