// Package store wraps a single bbolt database file as the durable
// backing for a content-addressable byte store.
package store

import (
	"errors"

	"go.etcd.io/bbolt"
)

// BucketBlobs holds hash -> compressed-content-bytes entries.
var BucketBlobs = []byte("blobs")

// ErrKeyNotFound is returned when a lookup misses.
var ErrKeyNotFound = errors.New("store: key not found")

// DB is a thin handle around a bbolt database with the blobs bucket
// pre-created.
type DB struct{ *bbolt.DB }

// Open opens (creating if necessary) the bbolt file at path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0666, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(BucketBlobs)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// Close closes the underlying database.
func (db *DB) Close() error { return db.DB.Close() }

// Put stores value under key, overwriting any existing entry.
func (db *DB) Put(key, value []byte) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketBlobs).Put(key, value)
	})
}

// Get retrieves the value stored under key.
func (db *DB) Get(key []byte) ([]byte, error) {
	var value []byte
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(BucketBlobs).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes key's stored value, if any.
func (db *DB) Delete(key []byte) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketBlobs).Delete(key)
	})
}

// Has reports whether key has a stored value.
func (db *DB) Has(key []byte) (bool, error) {
	var found bool
	err := db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(BucketBlobs).Get(key) != nil
		return nil
	})
	return found, err
}
