package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/websocket"
)

// NoteService handles note-related business logic
type NoteService struct {
	noteRepo       domain.NoteRepository
	eventPublisher websocket.EventPublisher
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo domain.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *NoteService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *NoteService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateNote creates a new note. Notes have no edit operation; mistakes are
// deleted and rewritten.
func (s *NoteService) CreateNote(ownerID uuid.UUID, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrNoteContentRequired
	}

	created, err := s.noteRepo.Create(&domain.Note{OwnerID: ownerID, Content: content})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.NoteCreated(created))
	return created, nil
}

// GetNotes retrieves all notes for an owner, newest first.
func (s *NoteService) GetNotes(ownerID uuid.UUID) ([]*domain.Note, error) {
	return s.noteRepo.GetByOwner(ownerID)
}

// DeleteNote removes a note. Deleting a missing note is not an error.
func (s *NoteService) DeleteNote(ownerID, id uuid.UUID) error {
	err := s.noteRepo.Delete(ownerID, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.NoteDeleted(map[string]interface{}{"id": id}))
	return nil
}
