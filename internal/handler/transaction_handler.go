package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/middleware"
	"github.com/sikaops/sika-backend/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	aggregator         *service.AggregationService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, aggregator *service.AggregationService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		aggregator:         aggregator,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Date          *string `json:"date,omitempty"`
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Category      string  `json:"category,omitempty"`
	Amount        string  `json:"amount"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body.
// Updates are full replacements.
type UpdateTransactionRequest struct {
	Date          string  `json:"date"`
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Amount        string  `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Amount        string  `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	input := service.CreateTransactionInput{
		Date:          date,
		Kind:          domain.TransactionKind(req.Kind),
		Description:   req.Description,
		Category:      req.Category,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if verr := transactionValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Str("description", transaction.Description).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the user's transactions, newest first, optionally filtered
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by kind (Income or Expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} TransactionResponse
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filter, verr := parseTransactionFilter(c)
	if verr != nil {
		return verr
	}

	transactions, err := h.transactionService.GetTransactions(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	transactions = h.aggregator.ApplyFilters(transactions, filter)

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t))
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Replace a transaction's fields
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.UpdateTransactionInput{
		Date:          date,
		Kind:          domain.TransactionKind(req.Kind),
		Description:   req.Description,
		Category:      req.Category,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if verr := transactionValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction updated")

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// CategoriesResponse lists the allowed categories per transaction kind and
// the supported payment methods
type CategoriesResponse struct {
	Income         []string `json:"income"`
	Expense        []string `json:"expense"`
	PaymentMethods []string `json:"paymentMethods"`
}

// GetCategories godoc
// @Summary List transaction categories
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoriesResponse
// @Router /transactions/categories [get]
func (h *TransactionHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{
		Income:         domain.IncomeCategories,
		Expense:        domain.ExpenseCategories,
		PaymentMethods: domain.PaymentMethods,
	})
}

// parseTransactionFilter reads the optional kind/category/startDate/endDate
// query parameters shared by the list and export endpoints.
func parseTransactionFilter(c echo.Context) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter

	if v := c.QueryParam("kind"); v != "" {
		kind := domain.TransactionKind(v)
		if !domain.ValidKind(kind) {
			return filter, NewValidationError(c, "Invalid kind", []ValidationError{
				{Field: "kind", Message: "Must be one of: Income, Expense"},
			})
		}
		filter.Kind = &kind
	}

	if v := c.QueryParam("category"); v != "" {
		filter.Category = &v
	}

	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.StartDate = &parsed
	}

	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.EndDate = &parsed
	}

	return filter, nil
}

// transactionValidationError maps domain validation failures to problem
// responses. Returns nil when err is not a validation failure.
func transactionValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidKind):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "kind", Message: "Kind must be one of: Income, Expense"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category does not match the transaction kind"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentMethod", Message: "Unknown payment method"},
		})
	case errors.Is(err, domain.ErrNotesTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "notes", Message: "Notes must be 1000 characters or less"},
		})
	}
	return nil
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID.String(),
		Date:          t.Date.Format("2006-01-02"),
		Kind:          string(t.Kind),
		Description:   t.Description,
		Category:      t.Category,
		Amount:        t.Amount.String(),
		PaymentMethod: t.PaymentMethod,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}
