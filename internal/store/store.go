// Package store handles SQLite persistence for accounts and progress.
package store

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Sentinel errors surfaced to the presentation layer as user-visible
// messages. Neither leaves the store's state changed.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// dateLayout is the calendar-date format used by the progress table.
const dateLayout = "2006-01-02"

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store wraps SQLite access for users, progress, and achievement flags.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// The pragma must ride the DSN so every pooled connection enforces
	// foreign keys, not just the one that would run a PRAGMA statement.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			date TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id INTEGER NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			achieved INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_progress_user_date ON progress(user_id, date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
