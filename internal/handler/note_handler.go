package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/middleware"
	"github.com/sikaops/sika-backend/internal/service"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// CreateNoteRequest represents the create note request body
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateNoteRequest true "Note creation request"
// @Success 201 {object} NoteResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	note, err := h.noteService.CreateNote(userID, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrNoteContentRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "Content is required"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create note")
		return NewInternalError(c, "Failed to create note")
	}

	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// GetNotes godoc
// @Summary List notes
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} NoteResponse
// @Failure 401 {object} ProblemDetails
// @Router /notes [get]
func (h *NoteHandler) GetNotes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	notes, err := h.noteService.GetNotes(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get notes")
		return NewInternalError(c, "Failed to get notes")
	}

	response := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		response = append(response, toNoteResponse(n))
	}

	return c.JSON(http.StatusOK, response)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid note ID", nil)
	}

	if err := h.noteService.DeleteNote(userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("note_id", id.String()).Msg("Failed to delete note")
		return NewInternalError(c, "Failed to delete note")
	}

	return c.NoContent(http.StatusNoContent)
}

func toNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
