package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
)

// SaveMutation upserts a mutation by id. The compare-and-replace happens
// inside a single write transaction, so two racing enqueues for the same
// method/note pair always leave the entry with the larger timestamp behind.
func (s *Storage) SaveMutation(ctx context.Context, mutation *models.Mutation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		key := []byte(mutation.ID)

		if existing := bucket.Get(key); existing != nil {
			stored := &models.Mutation{}
			if err := json.Unmarshal(existing, stored); err != nil {
				return fmt.Errorf("failed to unmarshal queued mutation: %w", err)
			}
			// Keep the stored entry if it is more recent
			if !mutation.Supersedes(stored) {
				return nil
			}
		}

		data, err := json.Marshal(mutation)
		if err != nil {
			return fmt.Errorf("failed to marshal mutation: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save mutation: %w", err)
		}

		return nil
	})
}

// GetMutation retrieves a queued mutation by id
func (s *Storage) GetMutation(ctx context.Context, id string) (*models.Mutation, error) {
	var mutation *models.Mutation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrMutationNotFound
		}

		mutation = &models.Mutation{}
		if err := json.Unmarshal(data, mutation); err != nil {
			return fmt.Errorf("failed to unmarshal mutation: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return mutation, nil
}

// ListMutations returns an unordered snapshot of all queued mutations
func (s *Storage) ListMutations(ctx context.Context) ([]*models.Mutation, error) {
	var mutations []*models.Mutation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			mutation := &models.Mutation{}
			if err := json.Unmarshal(v, mutation); err != nil {
				return fmt.Errorf("failed to unmarshal mutation: %w", err)
			}
			mutations = append(mutations, mutation)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return mutations, nil
}

// DeleteMutationIfTimestamp removes the entry only when it still carries the
// given timestamp. The check and the delete share one write transaction, so
// a superseding upsert racing with the delete always survives.
func (s *Storage) DeleteMutationIfTimestamp(ctx context.Context, id string, timestamp int64) (bool, error) {
	removed := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		key := []byte(id)

		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		stored := &models.Mutation{}
		if err := json.Unmarshal(data, stored); err != nil {
			return fmt.Errorf("failed to unmarshal queued mutation: %w", err)
		}
		if stored.Timestamp != timestamp {
			return nil
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete mutation: %w", err)
		}
		removed = true

		return nil
	})

	return removed, err
}

// DeleteMutation removes a confirmed mutation from the queue
func (s *Storage) DeleteMutation(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete mutation: %w", err)
		}

		return nil
	})
}
