package storage

import (
	"context"

	"github.com/jb04032000/offline-notes/internal/models"
)

// NotesStorage defines the server-side note persistence surface
type NotesStorage interface {
	// CreateNote persists a new note and returns its assigned id.
	// Creation is idempotent by localId: a retried create for a localId
	// the server already holds returns the existing note unchanged.
	CreateNote(ctx context.Context, note *models.ServerNote) (*models.ServerNote, error)

	// GetNote retrieves a note by id.
	// Returns ErrNoteNotFound if the note doesn't exist.
	GetNote(ctx context.Context, id int64) (*models.ServerNote, error)

	// UpdateNote replaces title, content and tags, stamps updatedAt and
	// increments the version counter.
	// Returns ErrNoteNotFound if the note doesn't exist.
	UpdateNote(ctx context.Context, id int64, title, content string, tags []string) (*models.ServerNote, error)

	// DeleteNote removes a note.
	// Returns ErrNoteNotFound if the note doesn't exist.
	DeleteNote(ctx context.Context, id int64) error

	// ListNotes returns all notes, newest created first
	ListNotes(ctx context.Context) ([]*models.ServerNote, error)
}
