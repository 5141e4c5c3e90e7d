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

// TodoHandler handles todo-related HTTP requests
type TodoHandler struct {
	todoService *service.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// CreateTodoRequest represents the create todo request body
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// TodoResponse represents a todo in API responses
type TodoResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// CreateTodo godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTodoRequest true "Todo creation request"
// @Success 201 {object} TodoResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	todo, err := h.todoService.CreateTodo(userID, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrTodoTextRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "text", Message: "Text is required"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create todo")
		return NewInternalError(c, "Failed to create todo")
	}

	return c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// GetTodos godoc
// @Summary List todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TodoResponse
// @Failure 401 {object} ProblemDetails
// @Router /todos [get]
func (h *TodoHandler) GetTodos(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	todos, err := h.todoService.GetTodos(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get todos")
		return NewInternalError(c, "Failed to get todos")
	}

	response := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		response = append(response, toTodoResponse(t))
	}

	return c.JSON(http.StatusOK, response)
}

// ToggleTodo godoc
// @Summary Toggle a todo's completion
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} TodoResponse
// @Failure 404 {object} ProblemDetails
// @Router /todos/{id}/toggle [patch]
func (h *TodoHandler) ToggleTodo(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid todo ID", nil)
	}

	todo, err := h.todoService.ToggleTodo(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Todo not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("todo_id", id.String()).Msg("Failed to toggle todo")
		return NewInternalError(c, "Failed to toggle todo")
	}

	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Tags todos
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid todo ID", nil)
	}

	if err := h.todoService.DeleteTodo(userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("todo_id", id.String()).Msg("Failed to delete todo")
		return NewInternalError(c, "Failed to delete todo")
	}

	return c.NoContent(http.StatusNoContent)
}

func toTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID.String(),
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}
