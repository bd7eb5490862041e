package models

import "time"

// MutationMethod identifies the kind of queued write operation
type MutationMethod string

const (
	MutationCreate MutationMethod = "create"
	MutationUpdate MutationMethod = "update"
	MutationDelete MutationMethod = "delete"
)

// Mutation is one queued write awaiting delivery to the server. The ID is
// derived from method and noteId, so a later mutation for the same note and
// method replaces the stored entry instead of appending to it.
type Mutation struct {
	ID        string         `json:"id"`
	Method    MutationMethod `json:"method"`
	TargetURL string         `json:"targetUrl"`
	NoteID    string         `json:"noteId"`
	// Payload holds the serialized note fields; nil for delete mutations.
	Payload []byte `json:"payload,omitempty"`
	// Timestamp is the enqueue time in unix milliseconds, used for recency
	// tie-breaks between superseding entries.
	Timestamp int64 `json:"timestamp"`
}

// MutationID derives the deterministic queue key for a method/note pair
func MutationID(method MutationMethod, noteID string) string {
	return string(method) + "-" + noteID
}

// NewMutation builds a mutation stamped with the current enqueue time
func NewMutation(method MutationMethod, noteID, targetURL string, payload []byte) *Mutation {
	return &Mutation{
		ID:        MutationID(method, noteID),
		Method:    method,
		TargetURL: targetURL,
		NoteID:    noteID,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Supersedes reports whether m should replace other in the queue.
// The entry with the larger enqueue timestamp wins.
func (m *Mutation) Supersedes(other *Mutation) bool {
	return m.Timestamp >= other.Timestamp
}
