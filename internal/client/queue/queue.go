package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
)

// Queue is the durable local mutation queue. Entries are keyed by
// method+noteId, so enqueueing a later mutation for the same note and method
// supersedes the stored one instead of appending. Dedup therefore happens at
// write time; Snapshot only has to order.
type Queue struct {
	storage storage.QueueStorage
	logger  *slog.Logger
}

// New creates a mutation queue over the given durable storage
func New(queueStorage storage.QueueStorage, logger *slog.Logger) *Queue {
	return &Queue{
		storage: queueStorage,
		logger:  logger,
	}
}

// Enqueue upserts a mutation. Safe to call while a drain is in progress:
// the entry lands in durable storage and is picked up by the next snapshot.
func (q *Queue) Enqueue(ctx context.Context, mutation *models.Mutation) error {
	if err := q.storage.SaveMutation(ctx, mutation); err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	q.logger.Debug("mutation enqueued",
		"mutation_id", mutation.ID,
		"method", mutation.Method,
		"note_id", mutation.NoteID)

	return nil
}

// Snapshot returns all pending mutations in delivery order: deletes first
// (so a drain never edits or resurrects a note about to be removed), then
// ascending enqueue timestamp. Mutations enqueued after the snapshot is
// taken are not part of this pass.
func (q *Queue) Snapshot(ctx context.Context) ([]*models.Mutation, error) {
	mutations, err := q.storage.ListMutations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot queue: %w", err)
	}

	sort.SliceStable(mutations, func(i, j int) bool {
		di := mutations[i].Method == models.MutationDelete
		dj := mutations[j].Method == models.MutationDelete
		if di != dj {
			return di
		}
		return mutations[i].Timestamp < mutations[j].Timestamp
	})

	return mutations, nil
}

// Get returns the stored entry for id. A drain reads it right before
// delivery so the payload sent is the freshest one, not the snapshot copy.
func (q *Queue) Get(ctx context.Context, id string) (*models.Mutation, error) {
	mutation, err := q.storage.GetMutation(ctx, id)
	if err != nil {
		return nil, err
	}
	return mutation, nil
}

// Confirm removes the entry only if it still carries the given timestamp.
// Returns false when a superseding mutation replaced it mid-delivery; that
// entry stays queued and is delivered by a later pass.
func (q *Queue) Confirm(ctx context.Context, id string, timestamp int64) (bool, error) {
	removed, err := q.storage.DeleteMutationIfTimestamp(ctx, id, timestamp)
	if err != nil {
		return false, fmt.Errorf("failed to confirm mutation: %w", err)
	}
	return removed, nil
}

// Remove deletes a confirmed mutation from the queue
func (q *Queue) Remove(ctx context.Context, id string) error {
	if err := q.storage.DeleteMutation(ctx, id); err != nil {
		return fmt.Errorf("failed to remove mutation: %w", err)
	}
	return nil
}

// Len returns the number of pending mutations
func (q *Queue) Len(ctx context.Context) (int, error) {
	mutations, err := q.storage.ListMutations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count mutations: %w", err)
	}
	return len(mutations), nil
}
