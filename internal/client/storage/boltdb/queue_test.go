package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
)

func testMutation(method models.MutationMethod, noteID string, timestamp int64, payload string) *models.Mutation {
	var body []byte
	if payload != "" {
		body = []byte(payload)
	}
	return &models.Mutation{
		ID:        models.MutationID(method, noteID),
		Method:    method,
		TargetURL: "/api/v1/notes",
		NoteID:    noteID,
		Payload:   body,
		Timestamp: timestamp,
	}
}

func TestSaveGetMutation(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	m := testMutation(models.MutationCreate, "note-1", 100, `{"title":"A"}`)
	require.NoError(t, store.SaveMutation(ctx, m))

	got, err := store.GetMutation(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, models.MutationCreate, got.Method)
	assert.Equal(t, "note-1", got.NoteID)
	assert.JSONEq(t, `{"title":"A"}`, string(got.Payload))
}

func TestSaveMutation_UpsertKeepsNewer(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	older := testMutation(models.MutationUpdate, "note-1", 100, `{"title":"old"}`)
	newer := testMutation(models.MutationUpdate, "note-1", 200, `{"title":"new"}`)

	require.NoError(t, store.SaveMutation(ctx, older))
	require.NoError(t, store.SaveMutation(ctx, newer))

	// A stale enqueue after the fact must not clobber the newer payload
	require.NoError(t, store.SaveMutation(ctx, older))

	mutations, err := store.ListMutations(ctx)
	require.NoError(t, err)
	require.Len(t, mutations, 1)
	assert.Equal(t, int64(200), mutations[0].Timestamp)
	assert.JSONEq(t, `{"title":"new"}`, string(mutations[0].Payload))
}

func TestSaveMutation_DistinctMethodsCoexist(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.SaveMutation(ctx, testMutation(models.MutationCreate, "note-1", 100, `{}`)))
	require.NoError(t, store.SaveMutation(ctx, testMutation(models.MutationUpdate, "note-1", 200, `{}`)))

	mutations, err := store.ListMutations(ctx)
	require.NoError(t, err)
	assert.Len(t, mutations, 2)
}

func TestGetMutation_NotFound(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetMutation(ctx, "update-missing")
	assert.ErrorIs(t, err, storage.ErrMutationNotFound)
}

func TestDeleteMutation(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	m := testMutation(models.MutationDelete, "note-1", 100, "")
	require.NoError(t, store.SaveMutation(ctx, m))
	require.NoError(t, store.DeleteMutation(ctx, m.ID))

	_, err := store.GetMutation(ctx, m.ID)
	assert.ErrorIs(t, err, storage.ErrMutationNotFound)

	// Deleting an already removed entry is a no-op
	assert.NoError(t, store.DeleteMutation(ctx, m.ID))
}

func TestListMutations_Empty(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	mutations, err := store.ListMutations(ctx)
	require.NoError(t, err)
	assert.Empty(t, mutations)
}

func TestDeleteMutationIfTimestamp(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	m := testMutation(models.MutationUpdate, "note-1", 100, `{"title":"A"}`)
	require.NoError(t, store.SaveMutation(ctx, m))

	// Mismatched timestamp leaves the entry alone
	removed, err := store.DeleteMutationIfTimestamp(ctx, m.ID, 99)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := store.GetMutation(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Timestamp)

	removed, err = store.DeleteMutationIfTimestamp(ctx, m.ID, 100)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = store.GetMutation(ctx, m.ID)
	assert.ErrorIs(t, err, storage.ErrMutationNotFound)
}

func TestDeleteMutationIfTimestamp_MissingEntry(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	removed, err := store.DeleteMutationIfTimestamp(ctx, "update-gone", 100)
	require.NoError(t, err)
	assert.False(t, removed)
}
