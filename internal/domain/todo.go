package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTodoTextRequired = errors.New("todo text is required")

type Todo struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type TodoRepository interface {
	Create(todo *Todo) (*Todo, error)
	GetByOwner(ownerID uuid.UUID) ([]*Todo, error)
	// Toggle flips the completed flag and returns the updated todo.
	Toggle(ownerID, id uuid.UUID) (*Todo, error)
	Delete(ownerID, id uuid.UUID) error
}
