package queue

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb04032000/offline-notes/internal/client/storage/boltdb"
	"github.com/jb04032000/offline-notes/internal/models"
)

func createTestQueue(t *testing.T) *Queue {
	dbPath := filepath.Join(t.TempDir(), "queue_test.db")

	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return New(store, logger)
}

func mutation(method models.MutationMethod, noteID string, timestamp int64) *models.Mutation {
	return &models.Mutation{
		ID:        models.MutationID(method, noteID),
		Method:    method,
		NoteID:    noteID,
		Timestamp: timestamp,
	}
}

func TestEnqueue_DedupsByMethodAndNote(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	first := mutation(models.MutationUpdate, "note-1", 100)
	first.Payload = []byte(`{"title":"first"}`)
	second := mutation(models.MutationUpdate, "note-1", 200)
	second.Payload = []byte(`{"title":"second"}`)

	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.JSONEq(t, `{"title":"second"}`, string(snapshot[0].Payload))
}

func TestSnapshot_DeletesSortFirst(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	// The delete is enqueued last but must be attempted first
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationCreate, "note-1", 100)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationUpdate, "note-2", 200)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationDelete, "note-3", 300)))

	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	assert.Equal(t, models.MutationDelete, snapshot[0].Method)
	assert.Equal(t, models.MutationCreate, snapshot[1].Method)
	assert.Equal(t, models.MutationUpdate, snapshot[2].Method)
}

func TestSnapshot_EqualPriorityOrdersByTimestamp(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationUpdate, "note-b", 300)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationUpdate, "note-a", 100)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationDelete, "note-d", 400)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationDelete, "note-c", 200)))

	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 4)
	assert.Equal(t, "note-c", snapshot[0].NoteID)
	assert.Equal(t, "note-d", snapshot[1].NoteID)
	assert.Equal(t, "note-a", snapshot[2].NoteID)
	assert.Equal(t, "note-b", snapshot[3].NoteID)
}

func TestEnqueueDuringDrain_NextPassPicksItUp(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationCreate, "note-1", 100)))

	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	// Enqueue while the first snapshot is still being processed
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationCreate, "note-2", 200)))

	// The in-flight snapshot is unchanged
	assert.Len(t, snapshot, 1)

	// The next pass sees both
	next, err := q.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, next, 2)
}

func TestRemoveAndLen(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	m := mutation(models.MutationCreate, "note-1", 100)
	require.NoError(t, q.Enqueue(ctx, m))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, q.Remove(ctx, m.ID))

	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConfirm_SupersededEntryStaysQueued(t *testing.T) {
	ctx := context.Background()
	q := createTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationCreate, "a", 100)))
	require.NoError(t, q.Enqueue(ctx, mutation(models.MutationCreate, "a", 200)))

	// Confirming the superseded delivery must not drop the newer entry
	removed, err := q.Confirm(ctx, models.MutationID(models.MutationCreate, "a"), 100)
	require.NoError(t, err)
	assert.False(t, removed)

	length, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)

	removed, err = q.Confirm(ctx, models.MutationID(models.MutationCreate, "a"), 200)
	require.NoError(t, err)
	assert.True(t, removed)

	length, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}
