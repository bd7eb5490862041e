package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
)

func TestSaveGetNote(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	note := models.NewNote("Shopping", "milk", []string{"home"})

	err := store.SaveNote(ctx, note)
	require.NoError(t, err)

	got, err := store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, note.LocalID, got.LocalID)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Content, got.Content)
	assert.Equal(t, note.Tags, got.Tags)
	assert.Equal(t, note.Version, got.Version)
	assert.False(t, got.Synced)
}

func TestSaveNote_Overwrites(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	note := models.NewNote("A", "", nil)
	require.NoError(t, store.SaveNote(ctx, note))

	note.Title = "B"
	note.Version = 2
	note.EditPending = true
	require.NoError(t, store.SaveNote(ctx, note))

	got, err := store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.EditPending)
}

func TestGetNote_NotFound(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetNote(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestListNotes_IncludesDeletePending(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	alive := models.NewNote("alive", "", nil)
	dead := models.NewNote("dead", "", nil)
	dead.DeletePending = true

	require.NoError(t, store.SaveNote(ctx, alive))
	require.NoError(t, store.SaveNote(ctx, dead))

	notes, err := store.ListNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestPurgeNote(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	note := models.NewNote("A", "", nil)
	require.NoError(t, store.SaveNote(ctx, note))

	require.NoError(t, store.PurgeNote(ctx, note.LocalID))

	_, err := store.GetNote(ctx, note.LocalID)
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)

	// Purging a missing note reports not found
	err = store.PurgeNote(ctx, note.LocalID)
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestSaveNote_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/reopen_test.db"

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	note := models.NewNote("persistent", "", nil)
	serverID := int64(7)
	note.ServerID = &serverID
	syncedAt := time.Now().UTC().Truncate(time.Millisecond)
	note.MarkSynced(syncedAt)
	require.NoError(t, store.SaveNote(ctx, note))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	got, err := reopened.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "persistent", got.Title)
	require.NotNil(t, got.ServerID)
	assert.Equal(t, int64(7), *got.ServerID)
	assert.True(t, got.Synced)
}
