package storage

import (
	"context"

	"github.com/jb04032000/offline-notes/internal/models"
)

//go:generate moq -out notes_mock.go . NoteStorage

// NoteStorage defines the durable local note table, keyed by localId.
// It is a thin CRUD surface: conflict policy lives in the sync packages,
// which observe pending state through the flags on models.Note.
type NoteStorage interface {
	// SaveNote stores or overwrites a note by its localId
	SaveNote(ctx context.Context, note *models.Note) error

	// GetNote retrieves a note by localId.
	// Returns ErrNoteNotFound if the note doesn't exist.
	GetNote(ctx context.Context, localID string) (*models.Note, error)

	// ListNotes returns every stored note, including delete-pending ones.
	// Callers decide what to surface.
	ListNotes(ctx context.Context) ([]*models.Note, error)

	// PurgeNote physically removes a note. Only called after the server
	// confirmed a deletion or a conflict policy decided the record is dead.
	PurgeNote(ctx context.Context, localID string) error
}
