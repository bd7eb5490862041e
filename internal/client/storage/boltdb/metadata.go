package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyLastSyncAt     = "last_sync_at"
	keyLastSyncResult = "last_sync_result"
)

// SaveLastSyncAt saves the wall-clock time of the last completed sync pass
func (s *Storage) SaveLastSyncAt(ctx context.Context, at time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(at.UnixMilli()))

		if err := bucket.Put([]byte(keyLastSyncAt), buf); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}

		return nil
	})
}

// GetLastSyncAt retrieves the time of the last completed sync pass.
// Returns the zero time if no sync has been performed yet.
func (s *Storage) GetLastSyncAt(ctx context.Context) (time.Time, error) {
	var at time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := bucket.Get([]byte(keyLastSyncAt))
		if buf == nil {
			return nil
		}

		at = time.UnixMilli(int64(binary.BigEndian.Uint64(buf)))
		return nil
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return at, nil
}

// SaveLastSyncResult records whether the last sync pass succeeded
func (s *Storage) SaveLastSyncResult(ctx context.Context, succeeded bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		val := []byte{0}
		if succeeded {
			val[0] = 1
		}

		if err := bucket.Put([]byte(keyLastSyncResult), val); err != nil {
			return fmt.Errorf("failed to save last sync result: %w", err)
		}

		return nil
	})
}

// GetLastSyncResult retrieves the outcome of the last sync pass.
// Returns true if no sync has been performed yet.
func (s *Storage) GetLastSyncResult(ctx context.Context) (bool, error) {
	succeeded := true

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		val := bucket.Get([]byte(keyLastSyncResult))
		if val == nil {
			return nil
		}

		succeeded = val[0] == 1
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to get last sync result: %w", err)
	}

	return succeeded, nil
}
