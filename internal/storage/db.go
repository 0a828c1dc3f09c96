// Package storage provides the sqlite persistence layer backing snapshot
// upserts and the card id mapping store. The resolution and aggregation
// engines never touch it directly; they consume the repository interfaces.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection shared by the repositories.
type DB struct {
	conn *sql.DB
}

// Config holds database connection settings.
type Config struct {
	// Path is the file path to the SQLite database. ":memory:" gives an
	// in-memory database for tests.
	Path string

	// MaxOpenConns caps open connections. Default: 10.
	MaxOpenConns int

	// BusyTimeout is how long to wait on a locked database. Default: 5s.
	BusyTimeout time.Duration

	// AutoMigrate applies pending migrations on Open.
	AutoMigrate bool
}

// DefaultConfig returns sensible defaults for the given path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:         path,
		MaxOpenConns: 10,
		BusyTimeout:  5 * time.Second,
	}
}

// Open opens the database, applying WAL mode and foreign keys, and
// optionally runs pending migrations.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	if config.AutoMigrate && config.Path != ":memory:" {
		if err := Migrate(config.Path); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	busy := config.BusyTimeout
	if busy == 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		config.Path, busy.Milliseconds())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for the repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
