package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	httpapi "github.com/jb04032000/offline-notes/internal/client/api"
	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/pkg/api"
)

// ErrOffline is returned when reconciliation is skipped because the server
// could not be reached.
var ErrOffline = errors.New("server unreachable")

// ReconcileResult summarizes one reconciliation pass
type ReconcileResult struct {
	// Pushed counts local states sent to the server
	Pushed int
	// Pulled counts server states adopted locally
	Pulled int
	// Conflicts counts divergences resolved by comparing update times
	Conflicts int
	// Purged counts local records physically removed
	Purged int
	// Skipped counts notes left untouched because of per-note errors
	Skipped int
}

// Reconciler converges the local note store and the server onto a single
// state. Conflicts are resolved whole-note by the later updatedAt; the
// server wins ties. A second pass over converged state is a no-op.
type Reconciler struct {
	apiClient httpapi.ClientAPI
	notes     storage.NoteStorage
	metadata  storage.MetadataStorage
	gate      *Gate
	events    *Broadcaster
	logger    *slog.Logger
}

func NewReconciler(
	apiClient httpapi.ClientAPI,
	noteStorage storage.NoteStorage,
	metadataStorage storage.MetadataStorage,
	gate *Gate,
	events *Broadcaster,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		apiClient: apiClient,
		notes:     noteStorage,
		metadata:  metadataStorage,
		gate:      gate,
		events:    events,
		logger:    logger,
	}
}

// Run performs one reconciliation pass. It returns ErrInFlight if a queue
// drain holds the gate and ErrOffline if the server is unreachable; both
// leave local state untouched.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileResult, error) {
	if !r.gate.TryAcquire() {
		return nil, ErrInFlight
	}
	defer r.gate.Release()

	if err := r.apiClient.Ping(ctx); err != nil {
		r.logger.Info("reconciliation skipped, server unreachable", "error", err)
		return nil, ErrOffline
	}

	r.events.Publish(Status{Syncing: true})

	result, err := r.reconcile(ctx)
	succeeded := err == nil && result.Skipped == 0

	if err := r.metadata.SaveLastSyncAt(ctx, time.Now().UTC()); err != nil {
		r.logger.Warn("failed to record sync time", "error", err)
	}
	if err := r.metadata.SaveLastSyncResult(ctx, succeeded); err != nil {
		r.logger.Warn("failed to record sync result", "error", err)
	}

	r.events.Publish(Status{Syncing: false, Succeeded: succeeded})

	return result, err
}

func (r *Reconciler) reconcile(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	serverNotes, err := r.apiClient.ListNotes(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list server notes: %w", err)
	}

	localNotes, err := r.notes.ListNotes(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list local notes: %w", err)
	}

	byServerID := make(map[int64]*api.Note, len(serverNotes))
	byLocalID := make(map[string]*api.Note, len(serverNotes))
	for i := range serverNotes {
		sn := &serverNotes[i]
		byServerID[sn.ID] = sn
		if sn.LocalID != "" {
			byLocalID[sn.LocalID] = sn
		}
	}

	matched := make(map[int64]bool, len(serverNotes))

	for _, local := range localNotes {
		serverNote := r.match(local, byServerID, byLocalID)
		if serverNote != nil {
			matched[serverNote.ID] = true
		}

		var err error
		switch {
		case local.DeletePending:
			err = r.reconcileDeletion(ctx, local, serverNote, result)
		case local.EditPending || !local.Synced:
			err = r.reconcileEdit(ctx, local, serverNote, result)
		case serverNote == nil:
			err = r.purgeOrphan(ctx, local, result)
		default:
			err = r.adoptServerChanges(ctx, local, serverNote, result)
		}
		if err != nil {
			result.Skipped++
			r.logger.Warn("note skipped during reconciliation",
				"local_id", local.LocalID,
				"error", err,
			)
		}
	}

	for i := range serverNotes {
		sn := &serverNotes[i]
		if matched[sn.ID] {
			continue
		}
		if err := r.pullServerNote(ctx, sn, result); err != nil {
			result.Skipped++
			r.logger.Warn("server note skipped during reconciliation",
				"server_id", sn.ID,
				"error", err,
			)
		}
	}

	r.logger.Info("reconciliation finished",
		"pushed", result.Pushed,
		"pulled", result.Pulled,
		"conflicts", result.Conflicts,
		"purged", result.Purged,
		"skipped", result.Skipped,
	)

	return result, nil
}

// match pairs a local note with its server counterpart: by serverId when
// assigned, otherwise by localId in case a create was applied but its
// acknowledgment was lost.
func (r *Reconciler) match(local *models.Note, byServerID map[int64]*api.Note, byLocalID map[string]*api.Note) *api.Note {
	if local.ServerID != nil {
		if sn, ok := byServerID[*local.ServerID]; ok {
			return sn
		}
		return nil
	}
	return byLocalID[local.LocalID]
}

// reconcileDeletion resolves a delete-pending note. A server copy updated
// after the local deletion wins and resurrects the note; otherwise the
// deletion is pushed through.
func (r *Reconciler) reconcileDeletion(ctx context.Context, local *models.Note, serverNote *api.Note, result *ReconcileResult) error {
	if serverNote == nil {
		// Already gone server-side; the deletion is effective
		if err := r.notes.PurgeNote(ctx, local.LocalID); err != nil {
			return fmt.Errorf("failed to purge note: %w", err)
		}
		result.Purged++
		return nil
	}

	result.Conflicts++

	if local.IsNewerThan(serverNote.UpdatedAt) {
		if err := r.apiClient.DeleteNote(ctx, serverNote.ID); err != nil {
			return fmt.Errorf("failed to delete server note: %w", err)
		}
		if err := r.notes.PurgeNote(ctx, local.LocalID); err != nil {
			return fmt.Errorf("failed to purge note: %w", err)
		}
		result.Purged++
		return nil
	}

	// The server copy is newer: the remote edit overrides the deletion
	applyServerFields(local, serverNote)
	local.MarkSynced(time.Now().UTC())
	if err := r.notes.SaveNote(ctx, local); err != nil {
		return fmt.Errorf("failed to resurrect note: %w", err)
	}
	result.Pulled++
	return nil
}

// reconcileEdit resolves a note with an unconfirmed local state
func (r *Reconciler) reconcileEdit(ctx context.Context, local *models.Note, serverNote *api.Note, result *ReconcileResult) error {
	if serverNote == nil {
		return r.pushLocalNote(ctx, local, result)
	}

	if !fieldsDiffer(local, serverNote) {
		// The server already holds this exact state; only the flags lag
		local.ServerID = &serverNote.ID
		local.Version = serverNote.Version
		local.MarkSynced(time.Now().UTC())
		if err := r.notes.SaveNote(ctx, local); err != nil {
			return fmt.Errorf("failed to normalize note: %w", err)
		}
		return nil
	}

	result.Conflicts++

	if local.IsNewerThan(serverNote.UpdatedAt) {
		req := api.EditNoteRequest{
			Title:   local.Title,
			Content: local.Content,
			Tags:    local.Tags,
		}
		if err := r.apiClient.UpdateNote(ctx, serverNote.ID, req); err != nil {
			return fmt.Errorf("failed to push local state: %w", err)
		}
		local.ServerID = &serverNote.ID
		local.MarkSynced(time.Now().UTC())
		if err := r.notes.SaveNote(ctx, local); err != nil {
			return fmt.Errorf("failed to mark note synced: %w", err)
		}
		result.Pushed++
		return nil
	}

	// Server wins, ties included; the whole server state replaces the
	// local one
	applyServerFields(local, serverNote)
	local.MarkSynced(time.Now().UTC())
	if err := r.notes.SaveNote(ctx, local); err != nil {
		return fmt.Errorf("failed to adopt server state: %w", err)
	}
	result.Pulled++
	return nil
}

// pushLocalNote sends an unconfirmed local note that has no server
// counterpart. Notes never created server-side are created; notes whose
// server copy vanished are treated as deleted remotely.
func (r *Reconciler) pushLocalNote(ctx context.Context, local *models.Note, result *ReconcileResult) error {
	if local.ServerID != nil {
		req := api.EditNoteRequest{
			Title:   local.Title,
			Content: local.Content,
			Tags:    local.Tags,
		}
		err := r.apiClient.UpdateNote(ctx, *local.ServerID, req)
		if err == nil {
			local.MarkSynced(time.Now().UTC())
			if err := r.notes.SaveNote(ctx, local); err != nil {
				return fmt.Errorf("failed to mark note synced: %w", err)
			}
			result.Pushed++
			return nil
		}

		var serverErr *httpapi.ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
			// The server deleted this note out from under the edit
			return r.purgeOrphan(ctx, local, result)
		}
		return fmt.Errorf("failed to push local edit: %w", err)
	}

	req := api.SaveNoteRequest{
		Title:     local.Title,
		Content:   local.Content,
		Tags:      local.Tags,
		LocalID:   local.LocalID,
		CreatedAt: local.CreatedAt,
	}
	resp, err := r.apiClient.CreateNote(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create server note: %w", err)
	}

	local.ServerID = &resp.InsertedID
	local.Version = resp.Version
	local.MarkSynced(time.Now().UTC())
	if err := r.notes.SaveNote(ctx, local); err != nil {
		return fmt.Errorf("failed to record server id: %w", err)
	}
	result.Pushed++
	return nil
}

// purgeOrphan removes a local record whose server counterpart was deleted
// by another client
func (r *Reconciler) purgeOrphan(ctx context.Context, local *models.Note, result *ReconcileResult) error {
	if err := r.notes.PurgeNote(ctx, local.LocalID); err != nil {
		return fmt.Errorf("failed to purge orphaned note: %w", err)
	}
	result.Purged++
	return nil
}

// adoptServerChanges refreshes a clean synced note when the server copy
// moved on
func (r *Reconciler) adoptServerChanges(ctx context.Context, local *models.Note, serverNote *api.Note, result *ReconcileResult) error {
	if !fieldsDiffer(local, serverNote) {
		return nil
	}

	applyServerFields(local, serverNote)
	local.MarkSynced(time.Now().UTC())
	if err := r.notes.SaveNote(ctx, local); err != nil {
		return fmt.Errorf("failed to adopt server state: %w", err)
	}
	result.Pulled++
	return nil
}

// pullServerNote inserts a server note the client has never seen
func (r *Reconciler) pullServerNote(ctx context.Context, serverNote *api.Note, result *ReconcileResult) error {
	local := &models.Note{
		LocalID:   serverNote.LocalID,
		CreatedAt: serverNote.CreatedAt,
	}
	if local.LocalID == "" {
		local.LocalID = uuid.New().String()
	}

	applyServerFields(local, serverNote)
	local.MarkSynced(time.Now().UTC())

	if err := r.notes.SaveNote(ctx, local); err != nil {
		return fmt.Errorf("failed to store server note: %w", err)
	}
	result.Pulled++
	return nil
}

// fieldsDiffer reports whether any replicated field diverges between the
// local and server copies
func fieldsDiffer(local *models.Note, serverNote *api.Note) bool {
	return local.Title != serverNote.Title ||
		local.Content != serverNote.Content ||
		!models.TagsEqual(local.Tags, serverNote.Tags) ||
		local.Version != serverNote.Version ||
		!local.UpdatedAt.Equal(serverNote.UpdatedAt)
}

// applyServerFields copies the replicated fields of the server state onto
// the local record
func applyServerFields(local *models.Note, serverNote *api.Note) {
	serverID := serverNote.ID
	local.ServerID = &serverID
	local.Title = serverNote.Title
	local.Content = serverNote.Content
	local.Tags = append([]string(nil), serverNote.Tags...)
	local.Version = serverNote.Version
	local.UpdatedAt = serverNote.UpdatedAt
	if local.CreatedAt.IsZero() {
		local.CreatedAt = serverNote.CreatedAt
	}
}
