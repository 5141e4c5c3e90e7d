package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrDebtNotFound        = errors.New("debt not found")
	ErrNoteNotFound        = errors.New("note not found")
	ErrTodoNotFound        = errors.New("todo not found")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxNotesLength       = 1000
)
