package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastSyncAt saves the wall-clock time of the last completed sync pass
	SaveLastSyncAt(ctx context.Context, at time.Time) error

	// GetLastSyncAt retrieves the time of the last completed sync pass.
	// Returns the zero time if no sync has been performed yet.
	GetLastSyncAt(ctx context.Context) (time.Time, error)

	// SaveLastSyncResult records whether the last sync pass succeeded
	SaveLastSyncResult(ctx context.Context, succeeded bool) error

	// GetLastSyncResult retrieves the outcome of the last sync pass.
	// Returns true if no sync has been performed yet.
	GetLastSyncResult(ctx context.Context) (bool, error)
}
