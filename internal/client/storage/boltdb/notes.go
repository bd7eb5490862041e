package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
)

// SaveNote stores or overwrites a note keyed by its localId
func (s *Storage) SaveNote(ctx context.Context, note *models.Note) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return fmt.Errorf("notes bucket not found")
		}

		data, err := json.Marshal(note)
		if err != nil {
			return fmt.Errorf("failed to marshal note: %w", err)
		}

		if err := bucket.Put([]byte(note.LocalID), data); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		return nil
	})
}

// GetNote retrieves a note by localId
func (s *Storage) GetNote(ctx context.Context, localID string) (*models.Note, error) {
	var note *models.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return fmt.Errorf("notes bucket not found")
		}

		data := bucket.Get([]byte(localID))
		if data == nil {
			return storage.ErrNoteNotFound
		}

		note = &models.Note{}
		if err := json.Unmarshal(data, note); err != nil {
			return fmt.Errorf("failed to unmarshal note: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return note, nil
}

// ListNotes returns every stored note, including delete-pending ones
func (s *Storage) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return fmt.Errorf("notes bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			note := &models.Note{}
			if err := json.Unmarshal(v, note); err != nil {
				return fmt.Errorf("failed to unmarshal note: %w", err)
			}
			notes = append(notes, note)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return notes, nil
}

// PurgeNote physically removes a note from the store
func (s *Storage) PurgeNote(ctx context.Context, localID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return fmt.Errorf("notes bucket not found")
		}

		if bucket.Get([]byte(localID)) == nil {
			return storage.ErrNoteNotFound
		}

		if err := bucket.Delete([]byte(localID)); err != nil {
			return fmt.Errorf("failed to purge note: %w", err)
		}

		return nil
	})
}
