package storage

import "errors"

// Common storage errors
var (
	// ErrNoteNotFound indicates that the note was not found in storage
	ErrNoteNotFound = errors.New("note not found")
)
