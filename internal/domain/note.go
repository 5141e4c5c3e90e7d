package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoteContentRequired = errors.New("note content is required")

// Note is immutable once created except by deletion.
type Note struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type NoteRepository interface {
	Create(note *Note) (*Note, error)
	GetByOwner(ownerID uuid.UUID) ([]*Note, error)
	Delete(ownerID, id uuid.UUID) error
}
