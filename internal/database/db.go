// Package database opens the SQLite transaction ledger used as an alternative
// transaction source.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DatabaseProfile selects how the ledger file is opened
type DatabaseProfile string

const (
	// ProfileReadOnly - the refresh cycle only ever reads the ledger
	ProfileReadOnly DatabaseProfile = "readonly"
	// ProfileLedger - used by the import command to write the ledger
	ProfileLedger DatabaseProfile = "ledger"
)

// ErrNotFound is returned when a read-only ledger file does not exist
var ErrNotFound = errors.New("database file not found")

// TransactionsSchema is the ledger table read by the SQLite and PostgreSQL sources.
// Columns mirror the export header in snake_case.
const TransactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_time TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	asset_id TEXT NOT NULL DEFAULT '',
	asset_name TEXT NOT NULL DEFAULT '',
	trade_quantity REAL,
	trade_amount REAL,
	transaction_amount REAL
);
CREATE INDEX IF NOT EXISTS idx_transactions_time ON transactions(transaction_time);
`

// DB wraps the database connection
type DB struct {
	conn    *sql.DB
	path    string
	profile DatabaseProfile
	name    string // Database name for logging
}

// Config holds database configuration
type Config struct {
	Path    string
	Profile DatabaseProfile
	Name    string
}

// New opens a SQLite database. A read-only profile never creates the file:
// a missing file is reported as ErrNotFound.
func New(cfg Config) (*DB, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
	}

	if cfg.Profile == "" {
		cfg.Profile = ProfileReadOnly
	}
	if cfg.Name == "" {
		cfg.Name = filepath.Base(absPath)
	}

	switch cfg.Profile {
	case ProfileReadOnly:
		if _, err := os.Stat(absPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, absPath)
			}
			return nil, fmt.Errorf("failed to stat database %s: %w", cfg.Name, err)
		}
	case ProfileLedger:
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown database profile %q", cfg.Profile)
	}

	conn, err := sql.Open("sqlite", buildConnectionString(absPath, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}
	configureConnectionPool(conn, cfg.Profile)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{
		conn:    conn,
		path:    absPath,
		profile: cfg.Profile,
		name:    cfg.Name,
	}, nil
}

// buildConnectionString creates SQLite connection string with profile-specific PRAGMAs
func buildConnectionString(path string, profile DatabaseProfile) string {
	switch profile {
	case ProfileReadOnly:
		return "file:" + path + "?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)"
	default:
		connStr := "file:" + path + "?_pragma=journal_mode(WAL)"
		connStr += "&_pragma=synchronous(FULL)" // Fsync after every write
		connStr += "&_pragma=busy_timeout(5000)"
		return connStr
	}
}

// configureConnectionPool sizes the pool for short-lived cycle reads
func configureConnectionPool(conn *sql.DB, profile DatabaseProfile) {
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// Single writer for the ledger
	if profile == ProfileLedger {
		conn.SetMaxOpenConns(1)
	}
}

// Migrate creates the transactions table. Only valid on a writable profile.
func (db *DB) Migrate() error {
	if db.profile == ProfileReadOnly {
		return fmt.Errorf("cannot migrate read-only database %s", db.name)
	}
	if _, err := db.conn.Exec(TransactionsSchema); err != nil {
		return fmt.Errorf("failed to apply transactions schema to %s: %w", db.name, err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Name returns the database name for logging
func (db *DB) Name() string {
	return db.name
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// WithTransaction executes a function within a database transaction.
// If the function returns an error or panics, the transaction is rolled back.
func WithTransaction(db *sql.DB, fn func(*sql.Tx) error) (err error) {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
		} else if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rollbackErr)
			} else {
				err = fmt.Errorf("transaction failed: %w", err)
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}
