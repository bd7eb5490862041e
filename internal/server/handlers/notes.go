package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/internal/server/storage"
	"github.com/jb04032000/offline-notes/internal/validation"
	"github.com/jb04032000/offline-notes/pkg/api"
)

// NotesHandler serves the note CRUD endpoints
type NotesHandler struct {
	storage storage.NotesStorage
	logger  *slog.Logger
}

// NewNotesHandler creates a new handler for note endpoints
func NewNotesHandler(notesStorage storage.NotesStorage, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{
		storage: notesStorage,
		logger:  logger,
	}
}

// SaveNote handles POST /api/v1/notes
func (h *NotesHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req api.SaveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTitle(req.Title); err != nil {
		h.writeError(w, http.StatusBadRequest, "title is required", err.Error())
		return
	}
	if err := validation.ValidateTags(req.Tags); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid tags", err.Error())
		return
	}

	note, err := h.storage.CreateNote(r.Context(), &models.ServerNote{
		LocalID:   req.LocalID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		h.logger.Error("failed to create note", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to save note", "")
		return
	}

	h.logger.Info("note created", "id", note.ID, "local_id", note.LocalID)

	h.writeJSON(w, http.StatusCreated, api.SaveNoteResponse{
		InsertedID: note.ID,
		Version:    note.Version,
	})
}

// ListNotes handles GET /api/v1/notes
func (h *NotesHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.storage.ListNotes(r.Context())
	if err != nil {
		h.logger.Error("failed to list notes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list notes", "")
		return
	}

	resp := make([]api.Note, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, toAPINote(note))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// EditNote handles PUT /api/v1/notes/{id}
func (h *NotesHandler) EditNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.noteID(w, r)
	if !ok {
		return
	}

	var req api.EditNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTitle(req.Title); err != nil {
		h.writeError(w, http.StatusBadRequest, "title is required", err.Error())
		return
	}
	if err := validation.ValidateTags(req.Tags); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid tags", err.Error())
		return
	}

	note, err := h.storage.UpdateNote(r.Context(), id, req.Title, req.Content, req.Tags)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			h.writeError(w, http.StatusNotFound, "note not found", "")
			return
		}
		h.logger.Error("failed to update note", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update note", "")
		return
	}

	h.logger.Info("note updated", "id", note.ID, "version", note.Version)

	h.writeJSON(w, http.StatusOK, toAPINote(note))
}

// DeleteNote handles DELETE /api/v1/notes/{id}
func (h *NotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.noteID(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteNote(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			h.writeError(w, http.StatusNotFound, "note not found", "")
			return
		}
		h.logger.Error("failed to delete note", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete note", "")
		return
	}

	h.logger.Info("note deleted", "id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotesHandler) noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid note id", "")
		return 0, false
	}
	return id, true
}

func (h *NotesHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *NotesHandler) writeError(w http.ResponseWriter, status int, message, details string) {
	h.writeJSON(w, status, api.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func toAPINote(note *models.ServerNote) api.Note {
	return api.Note{
		ID:        note.ID,
		LocalID:   note.LocalID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		Version:   note.Version,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
