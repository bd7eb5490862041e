package storage

import "errors"

// Common client storage errors
var (
	// ErrNoteNotFound indicates that no note exists for the given localId
	ErrNoteNotFound = errors.New("note not found")

	// ErrMutationNotFound indicates that no queued mutation exists for the given id
	ErrMutationNotFound = errors.New("queued mutation not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
