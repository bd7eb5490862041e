package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationID(t *testing.T) {
	assert.Equal(t, "create-note-1", MutationID(MutationCreate, "note-1"))
	assert.Equal(t, "delete-note-1", MutationID(MutationDelete, "note-1"))
}

func TestNewMutation(t *testing.T) {
	m := NewMutation(MutationUpdate, "note-1", "/api/v1/notes/5", []byte(`{"title":"A"}`))

	assert.Equal(t, "update-note-1", m.ID)
	assert.Equal(t, MutationUpdate, m.Method)
	assert.Equal(t, "note-1", m.NoteID)
	assert.Equal(t, "/api/v1/notes/5", m.TargetURL)
	assert.NotZero(t, m.Timestamp)
}

func TestMutation_Supersedes(t *testing.T) {
	older := &Mutation{ID: "update-n", Timestamp: 100}
	newer := &Mutation{ID: "update-n", Timestamp: 200}

	assert.True(t, newer.Supersedes(older))
	assert.False(t, older.Supersedes(newer))

	// Equal timestamps: the incoming entry wins, keeping enqueue idempotent
	same := &Mutation{ID: "update-n", Timestamp: 200}
	assert.True(t, same.Supersedes(newer))
}
