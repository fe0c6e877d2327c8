// Package library remembers recently opened mind-map documents in a small
// SQLite database.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one remembered document.
type Entry struct {
	Path     string
	Title    string // root topic text when last opened or saved
	Nodes    int
	OpenedAt time.Time
}

// Library is the recent-documents store.
type Library struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		l.now = now
	}
}

// DefaultPath returns ~/.mindmap/library.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mindmap", "library.db")
	}
	return filepath.Join(home, ".mindmap", "library.db")
}

// Open opens or creates the library database at path.
func Open(path string, opts ...Option) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := &Library{db: db, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init library schema: %w", err)
	}
	return l, nil
}

func (l *Library) initSchema() error {
	_, err := l.db.Exec(`
	CREATE TABLE IF NOT EXISTS documents (
		path      TEXT PRIMARY KEY,
		title     TEXT NOT NULL DEFAULT '',
		nodes     INTEGER NOT NULL DEFAULT 0,
		opened_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_opened ON documents(opened_at);
	`)
	return err
}

// Close closes the database.
func (l *Library) Close() error {
	return l.db.Close()
}

// Touch records that the document at path was just opened or saved.
func (l *Library) Touch(ctx context.Context, path, title string, nodes int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO documents (path, title, nodes, opened_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			nodes = excluded.nodes,
			opened_at = excluded.opened_at
	`, abs, title, nodes, l.now().UnixNano())
	if err != nil {
		return fmt.Errorf("touch %s: %w", abs, err)
	}
	return nil
}

// Recent returns up to limit documents, most recently used first.
func (l *Library) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT path, title, nodes, opened_at
		FROM documents
		ORDER BY opened_at DESC, path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent documents: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var opened int64
		if err := rows.Scan(&e.Path, &e.Title, &e.Nodes, &opened); err != nil {
			return nil, err
		}
		e.OpenedAt = time.Unix(0, opened)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes path from the library. Unknown paths are ignored.
func (l *Library) Forget(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := l.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("forget %s: %w", abs, err)
	}
	return nil
}

// Prune forgets documents that no longer exist on disk and returns how many
// were removed.
func (l *Library) Prune(ctx context.Context) (int, error) {
	entries, err := l.Recent(ctx, -1)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if _, err := os.Stat(e.Path); os.IsNotExist(err) {
			if err := l.Forget(ctx, e.Path); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
