package models

import "time"

// ServerNote is the authoritative server-side record of a note. Unlike the
// client Note it carries no sync flags: the server only ever holds
// acknowledged state.
type ServerNote struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	LocalID   string
	Title     string
	Content   string
	Tags      []string
	ID        int64
	Version   int64
}
