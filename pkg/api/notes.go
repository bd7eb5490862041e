package api

import "time"

// Note is the server-side representation of a note as it travels over the
// wire. Timestamps are RFC3339; tags are always a JSON array, never null.
type Note struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	LocalID   string    `json:"localId,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Tags      []string  `json:"tags"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
}

// SaveNoteRequest is the body of POST /api/v1/notes
type SaveNoteRequest struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	LocalID   string    `json:"localId"`
	Tags      []string  `json:"tags"`
}

// SaveNoteResponse is returned on successful creation.
// InsertedID becomes the client's serverId for the note.
type SaveNoteResponse struct {
	InsertedID int64 `json:"insertedId"`
	Version    int64 `json:"version"`
}

// EditNoteRequest is the body of PUT /api/v1/notes/{id}.
// The server increments its own version counter on apply.
type EditNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags"`
}

// ErrorResponse is the error body for all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
