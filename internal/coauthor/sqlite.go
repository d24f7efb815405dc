package coauthor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS coauthors (
	coauthor_key TEXT PRIMARY KEY,
	identity TEXT NOT NULL
);`

// SQLiteRepository keeps co-authors in a SQLite database. Keys are
// case-sensitive and List returns entries in the order they were first
// added.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	var identity string
	err := r.db.QueryRowContext(ctx, `SELECT identity FROM coauthors WHERE coauthor_key = ?`, key).Scan(&identity)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite get %q: %w", key, err)
	}
	return identity, true, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, key, identity string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO coauthors (coauthor_key, identity) VALUES (?, ?)
		 ON CONFLICT(coauthor_key) DO UPDATE SET identity = excluded.identity`,
		key, identity)
	if err != nil {
		return &StoreError{Op: "add", Key: key, Stderr: err.Error()}
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM coauthors WHERE coauthor_key = ?`, key); err != nil {
		return &StoreError{Op: "remove", Key: key, Stderr: err.Error()}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, full bool) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT coauthor_key, identity FROM coauthors ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Identity); err != nil {
			return nil, fmt.Errorf("sqlite list: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}

	return renderEntries(entries, full), nil
}
