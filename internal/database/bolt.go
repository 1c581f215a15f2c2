package database

import (
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Default database filename
	defaultDBFile = "data.db"

	kvBucket = "kv"
)

// BoltKV implements KV on a single BoltDB bucket.
type BoltKV struct {
	db *bolt.DB
}

// NewBolt opens the bolt file at dbPath, creating directory and bucket as needed.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltKV, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(kvBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltKV{db: db}, nil
}

// Get returns the value stored under key; found is false when it is absent.
func (b *BoltKV) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return nil
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			// bolt memory is only valid inside the transaction
			value = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, found, nil
}

func (b *BoltKV) Set(key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(kvBucket)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (b *BoltKV) Close() error {
	return b.db.Close()
}
