package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jb04032000/offline-notes/internal/client/queue"
	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/internal/validation"
	"github.com/jb04032000/offline-notes/pkg/api"
)

// Service is the local note store surface the UI layer talks to. Every
// mutating operation writes the canonical note first and then records
// delivery intent in the mutation queue; actual network delivery belongs to
// the sync scheduler. Conflict policy is not decided here.
type Service struct {
	notes  storage.NoteStorage
	queue  *queue.Queue
	logger *slog.Logger
}

// NewService creates a new local note service
func NewService(noteStorage storage.NoteStorage, q *queue.Queue, logger *slog.Logger) *Service {
	return &Service{
		notes:  noteStorage,
		queue:  q,
		logger: logger,
	}
}

// Updates carries a partial edit; nil fields keep the current value
type Updates struct {
	Title   *string
	Content *string
	Tags    []string
}

// Submit creates a new note locally and queues its creation for delivery
func (s *Service) Submit(ctx context.Context, title, content string, tags []string) (*models.Note, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}
	if err := validation.ValidateTags(tags); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	note := models.NewNote(title, content, tags)

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	if err := s.enqueueCreate(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note submitted", "local_id", note.LocalID, "title", note.Title)
	return note, nil
}

// Edit applies a partial update to a note and queues the edit for delivery.
// A delete-pending note is logically dead and cannot be edited.
func (s *Service) Edit(ctx context.Context, localID string, updates Updates) (*models.Note, error) {
	note, err := s.notes.GetNote(ctx, localID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	if note.DeletePending {
		return nil, fmt.Errorf("note %s is pending deletion and cannot be edited", localID)
	}

	if updates.Title != nil {
		note.Title = *updates.Title
	}
	if updates.Content != nil {
		note.Content = *updates.Content
	}
	if updates.Tags != nil {
		note.Tags = updates.Tags
	}

	if err := validation.ValidateTitle(note.Title); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}
	if err := validation.ValidateTags(note.Tags); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	note.UpdatedAt = time.Now().UTC()
	note.Version++
	note.Synced = false
	note.EditPending = note.ServerID != nil

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	// A note the server has never seen rides on its pending create mutation;
	// re-enqueueing refreshes the payload in place.
	if note.ServerID == nil {
		if err := s.enqueueCreate(ctx, note); err != nil {
			return nil, err
		}
	} else {
		payload, err := json.Marshal(api.EditNoteRequest{
			Title:   note.Title,
			Content: note.Content,
			Tags:    note.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal edit payload: %w", err)
		}

		targetURL := fmt.Sprintf("/api/v1/notes/%d", *note.ServerID)
		mutation := models.NewMutation(models.MutationUpdate, note.LocalID, targetURL, payload)
		if err := s.queue.Enqueue(ctx, mutation); err != nil {
			return nil, err
		}
	}

	s.logger.Info("note edited", "local_id", note.LocalID, "version", note.Version)
	return note, nil
}

// Delete removes a note. A note the server has never seen is discarded
// outright together with its queued mutations; a server-known note is
// flagged delete-pending and stays physically present until the deletion
// is acknowledged, so the signal survives restarts.
func (s *Service) Delete(ctx context.Context, localID string) error {
	note, err := s.notes.GetNote(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	if note.ServerID == nil {
		if err := s.queue.Remove(ctx, models.MutationID(models.MutationCreate, localID)); err != nil {
			return err
		}
		if err := s.notes.PurgeNote(ctx, localID); err != nil {
			return fmt.Errorf("failed to purge note: %w", err)
		}
		s.logger.Info("unsynced note discarded", "local_id", localID)
		return nil
	}

	note.DeletePending = true
	note.Synced = false
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	// A queued edit for a note about to be removed is pointless
	if err := s.queue.Remove(ctx, models.MutationID(models.MutationUpdate, localID)); err != nil {
		return err
	}

	targetURL := fmt.Sprintf("/api/v1/notes/%d", *note.ServerID)
	mutation := models.NewMutation(models.MutationDelete, localID, targetURL, nil)
	if err := s.queue.Enqueue(ctx, mutation); err != nil {
		return err
	}

	s.logger.Info("note marked for deletion", "local_id", localID)
	return nil
}

// Get retrieves a single note by localId
func (s *Service) Get(ctx context.Context, localID string) (*models.Note, error) {
	return s.notes.GetNote(ctx, localID)
}

// List returns all notes ordered by recency (createdAt descending).
// Delete-pending notes are included; the UI renders them struck-through.
func (s *Service) List(ctx context.Context) ([]*models.Note, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

// PendingCount returns the number of queued mutations awaiting delivery
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.queue.Len(ctx)
}

// enqueueCreate upserts the create mutation carrying the note's current fields
func (s *Service) enqueueCreate(ctx context.Context, note *models.Note) error {
	payload, err := json.Marshal(api.SaveNoteRequest{
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		LocalID:   note.LocalID,
		CreatedAt: note.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal create payload: %w", err)
	}

	mutation := models.NewMutation(models.MutationCreate, note.LocalID, "/api/v1/notes", payload)
	return s.queue.Enqueue(ctx, mutation)
}
