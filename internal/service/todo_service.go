package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/websocket"
)

// TodoService handles todo-related business logic
type TodoService struct {
	todoRepo       domain.TodoRepository
	eventPublisher websocket.EventPublisher
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo domain.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TodoService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TodoService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTodo creates a new todo, initially not completed.
func (s *TodoService) CreateTodo(ownerID uuid.UUID, text string) (*domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrTodoTextRequired
	}

	created, err := s.todoRepo.Create(&domain.Todo{OwnerID: ownerID, Text: text})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.TodoCreated(created))
	return created, nil
}

// GetTodos retrieves all todos for an owner, newest first.
func (s *TodoService) GetTodos(ownerID uuid.UUID) ([]*domain.Todo, error) {
	return s.todoRepo.GetByOwner(ownerID)
}

// ToggleTodo flips a todo's completed flag.
func (s *TodoService) ToggleTodo(ownerID, id uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.Toggle(ownerID, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.TodoToggled(todo))
	return todo, nil
}

// DeleteTodo removes a todo. Deleting a missing todo is not an error.
func (s *TodoService) DeleteTodo(ownerID, id uuid.UUID) error {
	err := s.todoRepo.Delete(ownerID, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTodoNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.TodoDeleted(map[string]interface{}{"id": id}))
	return nil
}
