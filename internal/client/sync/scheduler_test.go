package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/jb04032000/offline-notes/internal/client/api"
	"github.com/jb04032000/offline-notes/internal/client/queue"
	"github.com/jb04032000/offline-notes/internal/client/storage/boltdb"
	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/pkg/api"
)

type testEngine struct {
	apiClient  *httpapi.ClientAPIMock
	store      *boltdb.Storage
	queue      *queue.Queue
	gate       *Gate
	events     *Broadcaster
	scheduler  *Scheduler
	reconciler *Reconciler
}

func createTestEngine(t *testing.T) *testEngine {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sync_test.db")
	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	apiClient := &httpapi.ClientAPIMock{
		PingFunc: func(ctx context.Context) error { return nil },
	}

	q := queue.New(store, logger)
	gate := NewGate()
	events := NewBroadcaster()

	scheduler := NewScheduler(apiClient, store, q, store, gate, events, logger)
	scheduler.SetRetryDelay(time.Millisecond)

	reconciler := NewReconciler(apiClient, store, store, gate, events, logger)

	return &testEngine{
		apiClient:  apiClient,
		store:      store,
		queue:      q,
		gate:       gate,
		events:     events,
		scheduler:  scheduler,
		reconciler: reconciler,
	}
}

func (e *testEngine) saveNote(t *testing.T, note *models.Note) {
	t.Helper()
	require.NoError(t, e.store.SaveNote(context.Background(), note))
}

func (e *testEngine) enqueueCreate(t *testing.T, note *models.Note) *models.Mutation {
	t.Helper()

	payload, err := json.Marshal(api.SaveNoteRequest{
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		LocalID:   note.LocalID,
		CreatedAt: note.CreatedAt,
	})
	require.NoError(t, err)

	m := models.NewMutation(models.MutationCreate, note.LocalID, "/api/v1/notes", payload)
	require.NoError(t, e.queue.Enqueue(context.Background(), m))
	return m
}

func (e *testEngine) enqueueDelete(t *testing.T, note *models.Note) *models.Mutation {
	t.Helper()

	m := models.NewMutation(models.MutationDelete, note.LocalID, "/api/v1/notes", nil)
	require.NoError(t, e.queue.Enqueue(context.Background(), m))
	return m
}

func TestRunScheduledSync_DeliversCreate(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Groceries", "milk", []string{"home"})
	e.saveNote(t, note)
	e.enqueueCreate(t, note)

	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		assert.Equal(t, note.LocalID, req.LocalID)
		return &api.SaveNoteResponse{InsertedID: 7, Version: 1}, nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Remaining)

	stored, err := e.store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	require.NotNil(t, stored.ServerID)
	assert.Equal(t, int64(7), *stored.ServerID)
	assert.True(t, stored.Synced)
	assert.NotNil(t, stored.LastSyncedAt)

	length, err := e.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestRunScheduledSync_RetriesTransientFailure(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Flaky", "", nil)
	e.saveNote(t, note)
	e.enqueueCreate(t, note)

	attempts := 0
	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		attempts++
		if attempts < 3 {
			return nil, &httpapi.ServerError{StatusCode: 500, Message: "boom"}
		}
		return &api.SaveNoteResponse{InsertedID: 1, Version: 1}, nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 0, result.Failed)
}

func TestRunScheduledSync_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Down", "", nil)
	e.saveNote(t, note)
	e.enqueueCreate(t, note)

	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		return nil, &httpapi.ServerError{StatusCode: 503, Message: "unavailable"}
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Len(t, e.apiClient.CreateNoteCalls(), maxDeliveryAttempts)
	assert.Equal(t, 0, result.Delivered)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Remaining)

	// The mutation survives for the next pass
	length, err := e.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)

	succeeded, err := e.store.GetLastSyncResult(ctx)
	require.NoError(t, err)
	assert.False(t, succeeded)
}

func TestRunScheduledSync_PermanentFailureNotRetried(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Rejected", "", nil)
	e.saveNote(t, note)
	e.enqueueCreate(t, note)

	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		return nil, &httpapi.ServerError{StatusCode: 400, Message: "title is required"}
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Len(t, e.apiClient.CreateNoteCalls(), 1)
	assert.Equal(t, 1, result.Failed)
}

func TestRunScheduledSync_DeletesBeforeCreates(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	created := models.NewNote("New", "", nil)
	e.saveNote(t, created)

	serverID := int64(3)
	doomed := models.NewNote("Old", "", nil)
	doomed.ServerID = &serverID
	doomed.DeletePending = true
	e.saveNote(t, doomed)

	// Enqueue the create first so timestamp order alone would deliver it
	// first
	createMutation := e.enqueueCreate(t, created)
	deleteMutation := e.enqueueDelete(t, doomed)
	deleteMutation.Timestamp = createMutation.Timestamp + 10
	require.NoError(t, e.queue.Enqueue(ctx, deleteMutation))

	var order []string
	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		order = append(order, "create")
		return &api.SaveNoteResponse{InsertedID: 9, Version: 1}, nil
	}
	e.apiClient.DeleteNoteFunc = func(ctx context.Context, serverID int64) error {
		order = append(order, "delete")
		return nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, []string{"delete", "create"}, order)

	// The delete-pending note is physically gone after confirmation
	_, err = e.store.GetNote(ctx, doomed.LocalID)
	assert.Error(t, err)
}

func TestRunScheduledSync_FailureDoesNotBlockSiblings(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	failing := models.NewNote("Fails", "", nil)
	e.saveNote(t, failing)
	e.enqueueCreate(t, failing)

	passing := models.NewNote("Passes", "", nil)
	e.saveNote(t, passing)
	e.enqueueCreate(t, passing)

	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		if req.LocalID == failing.LocalID {
			return nil, &httpapi.ServerError{StatusCode: 400, Message: "no"}
		}
		return &api.SaveNoteResponse{InsertedID: 4, Version: 1}, nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Remaining)
}

func TestRunScheduledSync_StaleMutationIsDiscarded(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	// Queue entry without a backing note
	m := models.NewMutation(models.MutationUpdate, "gone", "/api/v1/notes/1", []byte(`{}`))
	require.NoError(t, e.queue.Enqueue(ctx, m))

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Empty(t, e.apiClient.UpdateNoteCalls())

	length, err := e.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestRunScheduledSync_RefusedWhileGateHeld(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	require.True(t, e.gate.TryAcquire())
	defer e.gate.Release()

	_, err := e.scheduler.RunScheduledSync(ctx)
	require.ErrorIs(t, err, ErrInFlight)
}

func TestRunScheduledSync_PublishesStatusTransitions(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	statuses, cancel := e.events.Subscribe()
	defer cancel()

	_, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)

	assert.Equal(t, Status{Syncing: true}, <-statuses)
	assert.Equal(t, Status{Syncing: false, Succeeded: true}, <-statuses)

	at, err := e.store.GetLastSyncAt(ctx)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestListen_CoalescesTriggerBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := createTestEngine(t)

	triggers := make(chan Trigger, 8)
	triggers <- TriggerOnline
	triggers <- TriggerScheduled
	triggers <- TriggerManual

	statuses, cancelSub := e.events.Subscribe()
	defer cancelSub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.scheduler.Listen(ctx, triggers)
	}()

	// One pass for the whole burst
	require.Equal(t, Status{Syncing: true}, <-statuses)
	require.Equal(t, Status{Syncing: false, Succeeded: true}, <-statuses)

	select {
	case status := <-statuses:
		t.Fatalf("unexpected extra pass: %+v", status)
	case <-time.After(50 * time.Millisecond):
	}

	close(triggers)
	<-done
}

func TestRunScheduledSync_SupersedingEnqueueSurvivesDrain(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Draft", "first version", nil)
	e.saveNote(t, note)
	first := e.enqueueCreate(t, note)

	// A refreshed payload lands under the same key while the first one is
	// on the wire
	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		note.Content = "second version"
		note.Synced = false
		require.NoError(t, e.store.SaveNote(ctx, note))

		payload, err := json.Marshal(api.SaveNoteRequest{
			Title:     note.Title,
			Content:   note.Content,
			Tags:      note.Tags,
			LocalID:   note.LocalID,
			CreatedAt: note.CreatedAt,
		})
		require.NoError(t, err)

		superseding := models.NewMutation(models.MutationCreate, note.LocalID, "/api/v1/notes", payload)
		superseding.Timestamp = first.Timestamp + 10
		require.NoError(t, e.queue.Enqueue(ctx, superseding))

		return &api.SaveNoteResponse{InsertedID: 4, Version: 1}, nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Delivered)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 1, result.Remaining)

	// The superseding mutation is still queued
	length, err := e.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, length)
	stored, err := e.queue.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Timestamp+10, stored.Timestamp)

	// The note keeps its server id but stays pending, so reconciliation
	// cannot adopt the stale server copy over the refreshed edit
	fresh, err := e.store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	require.NotNil(t, fresh.ServerID)
	assert.Equal(t, int64(4), *fresh.ServerID)
	assert.False(t, fresh.Synced)
	assert.Equal(t, "second version", fresh.Content)

	// The next pass pushes the refreshed content as an update
	var pushed []string
	e.apiClient.UpdateNoteFunc = func(ctx context.Context, serverID int64, req api.EditNoteRequest) error {
		pushed = append(pushed, req.Content)
		return nil
	}

	result, err = e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, []string{"second version"}, pushed)

	length, err = e.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)

	fresh, err = e.store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	assert.True(t, fresh.Synced)
}

func TestRunScheduledSync_EditDuringDeliveryKeepsPendingFlags(t *testing.T) {
	ctx := context.Background()
	e := createTestEngine(t)

	note := models.NewNote("Draft", "first version", nil)
	e.saveNote(t, note)
	e.enqueueCreate(t, note)

	// An edit lands under a different key while the create is on the wire
	e.apiClient.CreateNoteFunc = func(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
		m := models.NewMutation(models.MutationUpdate, note.LocalID, "/api/v1/notes/6", []byte(`{"title":"Draft","content":"second version","tags":[]}`))
		require.NoError(t, e.queue.Enqueue(ctx, m))
		return &api.SaveNoteResponse{InsertedID: 6, Version: 1}, nil
	}

	result, err := e.scheduler.RunScheduledSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 1, result.Remaining)

	// The create itself confirms, but the flags are not normalized while
	// the edit is still queued
	fresh, err := e.store.GetNote(ctx, note.LocalID)
	require.NoError(t, err)
	require.NotNil(t, fresh.ServerID)
	assert.False(t, fresh.Synced)
}
