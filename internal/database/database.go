// Package database provides the string key-value stores backing favorites.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amaumene/nekoview/internal/constants"
)

// KV is a synchronous string store. Get reports found=false for a missing key.
type KV interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Close() error
}

const (
	dbFileMode = 0600
	dbDirMode  = 0755
)

// Open returns the KV for driver ("bolt", "sqlite" or "memory").
func Open(driver, path string) (KV, error) {
	switch driver {
	case "", constants.StoreDriverBolt:
		return NewBolt(path)
	case constants.StoreDriverSQLite:
		return NewSQLite(path)
	case constants.StoreDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func ensureDir(dbPath string) error {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// SQLiteKV implements KV on a single sqlite table.
type SQLiteKV struct {
	conn *sql.DB

	stmtGet *sql.Stmt
	stmtSet *sql.Stmt
	mu      sync.RWMutex
}

// NewSQLite opens (or creates) the sqlite database at dbPath.
// ":memory:" is accepted for tests.
func NewSQLite(dbPath string) (*SQLiteKV, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", "favorites.sqlite")
	}
	if dbPath != ":memory:" {
		if err := ensureDir(dbPath); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps ":memory:" databases alive and serialises writers
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(30 * time.Minute)

	db := &SQLiteKV{conn: conn}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *SQLiteKV) createTables() error {
	kvTable := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := db.conn.Exec(kvTable); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (db *SQLiteKV) prepareStatements() error {
	var err error

	db.stmtGet, err = db.conn.Prepare("SELECT value FROM kv WHERE key = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	db.stmtSet, err = db.conn.Prepare("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)")
	if err != nil {
		return fmt.Errorf("failed to prepare set statement: %w", err)
	}

	return nil
}

func (db *SQLiteKV) Get(key string) (string, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var value string
	err := db.stmtGet.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (db *SQLiteKV) Set(key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.stmtSet.Exec(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (db *SQLiteKV) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.stmtGet != nil {
		db.stmtGet.Close()
	}
	if db.stmtSet != nil {
		db.stmtSet.Close()
	}
	return db.conn.Close()
}

// MemoryKV is a process-local KV; favorites kept here are session-only.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Close() error { return nil }
