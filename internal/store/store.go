// Package store implements the keyed blob store backing the local mock
// persistence layer. Each storage key holds one JSON document, mirroring the
// browser localStorage layout of the original FastSeller client.
package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Storage keys, one JSON blob each. The pa_ prefix is kept from the original
// client so data files stay recognizable.
const (
	KeyAuth       = "pa_auth"
	KeyUsers      = "pa_users"
	KeyItems      = "pa_items"
	KeyFavorites  = "pa_favorites"
	KeyOrders     = "pa_orders"
	KeyMessages   = "pa_messages"
	KeyMapHistory = "pa_map_history"
)

var bucketName = []byte("fastseller")

// Store reads and writes JSON blobs under fixed keys. Writes are synchronous
// and durable. There is no cross-process coordination beyond bbolt's
// single-writer file lock: last writer wins.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// Open creates or opens the data file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db, log: zap.L()}, nil
}

// Read decodes the blob stored under key into v. When the key is absent or
// the blob is not valid JSON, v is left at its zero value and Read returns
// nil: corruption degrades to the empty default rather than surfacing as an
// error. A corrupt blob is logged so it does not hide silently.
func (s *Store) Read(key string, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			s.log.Warn("discarding corrupt blob", zap.String("key", key), zap.Error(err))
		}
		return nil
	})
}

// Write serializes v and stores it under key.
func (s *Store) Write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), raw)
	})
}

// Delete removes the blob stored under key, if any.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

// Has reports whether a blob exists under key.
func (s *Store) Has(key string) bool {
	var found bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketName).Get([]byte(key)) != nil
		return nil
	})
	return found
}

// Close releases the data file.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a collision-resistant identifier in the original client's
// format: unix milliseconds, an underscore, and a short base36 suffix.
func NewID() string {
	suffix := strconv.FormatInt(rand.Int63n(36*36*36*36*36*36*36), 36)
	for len(suffix) < 7 {
		suffix = "0" + suffix
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix)
}
