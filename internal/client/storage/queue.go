package storage

import (
	"context"

	"github.com/jb04032000/offline-notes/internal/models"
)

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage defines the durable mutation queue, keyed by mutation id
// (method + noteId). Each entry carries the payload to deliver; a drain
// re-reads the stored entry just before delivery, so an upsert that lands
// mid-pass is never sent or confirmed stale.
type QueueStorage interface {
	// SaveMutation upserts a mutation by id. When an entry with the same id
	// exists, the one with the larger enqueue timestamp is kept.
	SaveMutation(ctx context.Context, mutation *models.Mutation) error

	// GetMutation retrieves a mutation by id.
	// Returns ErrMutationNotFound if no such entry exists.
	GetMutation(ctx context.Context, id string) (*models.Mutation, error)

	// ListMutations returns an unordered snapshot of all pending mutations.
	// Entries enqueued after the snapshot is taken are picked up by the next
	// drain pass, not lost.
	ListMutations(ctx context.Context) ([]*models.Mutation, error)

	// DeleteMutation removes a confirmed entry
	DeleteMutation(ctx context.Context, id string) error

	// DeleteMutationIfTimestamp removes the entry only when its stored
	// timestamp equals the given one. Returns whether the entry was removed;
	// a superseding upsert that landed in the meantime stays queued.
	DeleteMutationIfTimestamp(ctx context.Context, id string, timestamp int64) (bool, error)
}
