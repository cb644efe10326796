// Package cache persists fetched record content in a local bbolt database
// so repeated opens of the same id avoid a gateway round-trip. Records are
// immutable, so cached entries never expire or invalidate.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketContent = []byte("content")

// MaxEntrySize caps a single cached entry. Larger content is served from
// the gateway every time rather than bloating the local database.
const MaxEntrySize = 10 << 20

// Store is a content-addressed cache keyed by record id.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath. The parent directory
// is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketContent)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores content under id. Entries over MaxEntrySize are rejected with
// ErrEntryTooLarge; callers backfilling the cache treat that as a no-op.
func (s *Store) Put(id string, data []byte) error {
	if id == "" {
		return fmt.Errorf("cache: empty id")
	}
	if len(data) > MaxEntrySize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrEntryTooLarge, len(data), MaxEntrySize)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketContent).Put([]byte(id), data); err != nil {
			return fmt.Errorf("cache: put %s: %w", id, err)
		}
		return nil
	})
}

// Get returns the cached content for id, or ErrNotFound.
func (s *Store) Get(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketContent).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		// Copy: bbolt values are only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Has reports whether id is cached.
func (s *Store) Has(id string) bool {
	found := false
	_ = s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketContent).Get([]byte(id)) != nil
		return nil
	})
	return found
}

// Len returns the number of cached entries.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketContent).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cache: stats: %w", err)
	}
	return n, nil
}
