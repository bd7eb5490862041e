package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Note is the client's canonical record of a note, including its sync state.
// The Local Note Store is the single source of truth for these fields; the
// mutation queue only carries transient delivery intent.
type Note struct {
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	// ServerID is assigned once the note has been persisted server-side.
	// A note with ServerID == nil has never existed on the server.
	ServerID *int64   `json:"serverId,omitempty"`
	LocalID  string   `json:"localId"`
	Title    string   `json:"title"`
	Content  string   `json:"content,omitempty"`
	Tags     []string `json:"tags"`
	Version  int64    `json:"version"`
	// Synced reports whether this exact state has been acknowledged by the
	// server.
	Synced bool `json:"synced"`
	// EditPending marks a local edit the server has not acknowledged.
	EditPending bool `json:"editPending,omitempty"`
	// DeletePending marks a local deletion the server has not acknowledged.
	// The note stays physically present until the deletion is confirmed.
	DeletePending bool `json:"deletePending,omitempty"`
}

// NewNote creates an unsynced local note with a fresh localId and version 1.
func NewNote(title, content string, tags []string) *Note {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		LocalID:   uuid.New().String(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
		Synced:    false,
	}
}

// Clone returns a deep copy of the note
func (n *Note) Clone() *Note {
	clone := *n
	if n.ServerID != nil {
		id := *n.ServerID
		clone.ServerID = &id
	}
	if n.LastSyncedAt != nil {
		at := *n.LastSyncedAt
		clone.LastSyncedAt = &at
	}
	clone.Tags = append([]string(nil), n.Tags...)
	return &clone
}

// IsNewerThan reports whether the local note was updated after the given
// remote timestamp. Comparison is on parsed time values, never on the
// RFC3339 string form.
func (n *Note) IsNewerThan(remoteUpdatedAt time.Time) bool {
	return n.UpdatedAt.After(remoteUpdatedAt)
}

// Pending reports whether the note carries any unconfirmed local mutation
func (n *Note) Pending() bool {
	return n.EditPending || n.DeletePending || !n.Synced
}

// MarkSynced normalizes the sync flags after the server acknowledged the
// current state. Repeated reconciliation passes rely on this to converge.
func (n *Note) MarkSynced(at time.Time) {
	n.Synced = true
	n.EditPending = false
	n.DeletePending = false
	syncedAt := at
	n.LastSyncedAt = &syncedAt
}

// TagsEqual compares two tag sets ignoring order
func TagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
