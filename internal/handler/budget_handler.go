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

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Period   string `json:"period"`
}

// BudgetResponse represents a budget with derived spending figures
type BudgetResponse struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Period      string  `json:"period"`
	Spent       string  `json:"spent"`
	Remaining   string  `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Create a spending budget for an expense category
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "Budget creation request"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(userID, service.CreateBudgetInput{
		Category: req.Category,
		Amount:   amount,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if verr := budgetValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", budget.ID.String()).Str("category", budget.Category).Msg("Budget created")

	status, err := h.budgetService.GetBudgetByID(userID, budget.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", budget.ID.String()).Msg("Failed to compute budget status")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(status))
}

// GetBudgets godoc
// @Summary List budgets
// @Description List the user's budgets with current-period spending
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	statuses, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	response := make([]BudgetResponse, 0, len(statuses))
	for _, s := range statuses {
		response = append(response, toBudgetResponse(s))
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Param request body BudgetRequest true "Budget update request"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	_, err = h.budgetService.UpdateBudget(userID, id, service.UpdateBudgetInput{
		Category: req.Category,
		Amount:   amount,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if verr := budgetValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", id.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", id.String()).Msg("Budget updated")

	status, err := h.budgetService.GetBudgetByID(userID, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", id.String()).Msg("Failed to compute budget status")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(status))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", id.String()).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}

func budgetValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBudgetCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Must be an expense category"},
		})
	case errors.Is(err, domain.ErrInvalidBudgetAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidBudgetPeriod):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Must be one of: monthly, yearly"},
		})
	}
	return nil
}

func toBudgetResponse(s *domain.BudgetStatus) BudgetResponse {
	return BudgetResponse{
		ID:          s.Budget.ID.String(),
		Category:    s.Budget.Category,
		Amount:      s.Budget.Amount.String(),
		Period:      string(s.Budget.Period),
		Spent:       s.Spent.String(),
		Remaining:   s.Remaining.String(),
		PercentUsed: s.PercentUsed,
		CreatedAt:   s.Budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.Budget.UpdatedAt.Format(time.RFC3339),
	}
}
