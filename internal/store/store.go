// Package store persists learner state and the event log in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database and implements the key-value, question
// and event repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY,
			skill TEXT NOT NULL,
			band INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			answers TEXT NOT NULL,
			tip TEXT NOT NULL,
			focus TEXT NOT NULL,
			choices TEXT NOT NULL,
			UNIQUE (skill, prompt)
		)`,
		`CREATE TABLE IF NOT EXISTS answer_events (
			sequence INTEGER PRIMARY KEY,
			timestamp TEXT NOT NULL,
			session_id TEXT NOT NULL,
			skill TEXT NOT NULL,
			question_key TEXT NOT NULL,
			level INTEGER NOT NULL,
			band INTEGER NOT NULL,
			learner_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			timed_out INTEGER NOT NULL,
			time_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_events (
			sequence INTEGER PRIMARY KEY,
			timestamp TEXT NOT NULL,
			session_id TEXT NOT NULL,
			action TEXT NOT NULL,
			mode TEXT NOT NULL,
			questions_served INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			duration_secs INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_skill_band ON questions(skill, band)`,
		`CREATE INDEX IF NOT EXISTS idx_answer_events_skill ON answer_events(skill)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGOZ_DB environment variable
// 2. $XDG_DATA_HOME/lingoz/lingoz.db
// 3. ~/.local/share/lingoz/lingoz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGOZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lingoz", "lingoz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Backend = (*Store)(nil)
