package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/internal/server/storage"
)

// CreateNote persists a new note and returns the stored record. A retried
// create for a localId the server already holds returns the existing note
// unchanged, so at-least-once delivery never produces duplicates.
func (s *Storage) CreateNote(ctx context.Context, note *models.ServerNote) (*models.ServerNote, error) {
	if note.LocalID != "" {
		existing, err := s.getNoteByLocalID(ctx, note.LocalID)
		if err != nil && !errors.Is(err, storage.ErrNoteNotFound) {
			return nil, fmt.Errorf("failed to check existing note: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now().UTC()
	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO notes (local_id, title, content, tags, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		note.LocalID,
		note.Title,
		note.Content,
		tags,
		createdAt.UnixMilli(),
		now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return s.GetNote(ctx, id)
}

// GetNote retrieves a note by id.
// Returns ErrNoteNotFound if the note doesn't exist.
func (s *Storage) GetNote(ctx context.Context, id int64) (*models.ServerNote, error) {
	query := `
		SELECT id, local_id, title, content, tags, version, created_at, updated_at
		FROM notes
		WHERE id = ?
	`
	return s.scanNote(s.db.QueryRowContext(ctx, query, id))
}

// UpdateNote replaces title, content and tags, stamps updatedAt and bumps
// the version counter
func (s *Storage) UpdateNote(ctx context.Context, id int64, title, content string, tags []string) (*models.ServerNote, error) {
	tagsJSON, err := marshalTags(tags)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE notes
		SET title = ?, content = ?, tags = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		title,
		content,
		tagsJSON,
		time.Now().UTC().UnixMilli(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNoteNotFound
	}

	return s.GetNote(ctx, id)
}

// DeleteNote removes a note.
// Returns ErrNoteNotFound if the note doesn't exist.
func (s *Storage) DeleteNote(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNoteNotFound
	}

	return nil
}

// ListNotes returns all notes, newest created first
func (s *Storage) ListNotes(ctx context.Context) ([]*models.ServerNote, error) {
	query := `
		SELECT id, local_id, title, content, tags, version, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.ServerNote, 0)
	for rows.Next() {
		note, err := s.scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

func (s *Storage) getNoteByLocalID(ctx context.Context, localID string) (*models.ServerNote, error) {
	query := `
		SELECT id, local_id, title, content, tags, version, created_at, updated_at
		FROM notes
		WHERE local_id = ?
	`
	return s.scanNote(s.db.QueryRowContext(ctx, query, localID))
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanNote(row rowScanner) (*models.ServerNote, error) {
	note := &models.ServerNote{}
	var tagsJSON string
	var createdAt, updatedAt int64

	err := row.Scan(
		&note.ID,
		&note.LocalID,
		&note.Title,
		&note.Content,
		&tagsJSON,
		&note.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	note.CreatedAt = time.UnixMilli(createdAt).UTC()
	note.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return note, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}
