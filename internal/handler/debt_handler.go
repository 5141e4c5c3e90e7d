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

// DebtHandler handles debt-related HTTP requests
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
	}
}

// DebtRequest represents the create/update debt request body
type DebtRequest struct {
	Direction        string  `json:"direction"`
	CounterpartyName string  `json:"counterpartyName"`
	Reason           string  `json:"reason"`
	TotalAmount      string  `json:"totalAmount"`
	PaidAmount       *string `json:"paidAmount,omitempty"`
	DueDate          *string `json:"dueDate,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// DebtResponse represents a debt in API responses
type DebtResponse struct {
	ID               string  `json:"id"`
	Direction        string  `json:"direction"`
	CounterpartyName string  `json:"counterpartyName"`
	Reason           string  `json:"reason"`
	TotalAmount      string  `json:"totalAmount"`
	PaidAmount       string  `json:"paidAmount"`
	Remaining        string  `json:"remaining"`
	Settled          bool    `json:"settled"`
	DueDate          *string `json:"dueDate,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// DebtListResponse pairs the debt list with per-direction outstanding totals
type DebtListResponse struct {
	Debts      []DebtResponse `json:"debts"`
	OwedToUser string         `json:"owedToUser"`
	UserOwes   string         `json:"userOwes"`
}

// AddPaymentRequest represents the add payment request body
type AddPaymentRequest struct {
	Amount string `json:"amount"`
}

// CreateDebt godoc
// @Summary Create a debt
// @Description Record money owed to or by the user
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DebtRequest true "Debt creation request"
// @Success 201 {object} DebtResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /debts [post]
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, verr := parseDebtInput(c, req)
	if verr != nil {
		return verr
	}

	debt, err := h.debtService.CreateDebt(userID, service.CreateDebtInput(*input))
	if err != nil {
		if verr := debtValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create debt")
		return NewInternalError(c, "Failed to create debt")
	}

	log.Info().Str("user_id", userID.String()).Str("debt_id", debt.ID.String()).Str("counterparty", debt.CounterpartyName).Msg("Debt created")

	return c.JSON(http.StatusCreated, toDebtResponse(debt))
}

// GetDebts godoc
// @Summary List debts
// @Description List the user's debts with outstanding totals per direction
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DebtListResponse
// @Failure 401 {object} ProblemDetails
// @Router /debts [get]
func (h *DebtHandler) GetDebts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debts, err := h.debtService.GetDebts(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get debts")
		return NewInternalError(c, "Failed to get debts")
	}

	totals, err := h.debtService.GetTotals(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get debt totals")
		return NewInternalError(c, "Failed to get debts")
	}

	response := DebtListResponse{
		Debts:      make([]DebtResponse, 0, len(debts)),
		OwedToUser: totals.OwedToUser.String(),
		UserOwes:   totals.UserOwes.String(),
	}
	for _, d := range debts {
		response.Debts = append(response.Debts, toDebtResponse(d))
	}

	return c.JSON(http.StatusOK, response)
}

// GetDebt godoc
// @Summary Get a debt
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} DebtResponse
// @Failure 404 {object} ProblemDetails
// @Router /debts/{id} [get]
func (h *DebtHandler) GetDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	debt, err := h.debtService.GetDebtByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Failed to get debt")
		return NewInternalError(c, "Failed to get debt")
	}

	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// UpdateDebt godoc
// @Summary Update a debt
// @Description Replace a debt's fields, including paid amount corrections
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param request body DebtRequest true "Debt update request"
// @Success 200 {object} DebtResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, verr := parseDebtInput(c, req)
	if verr != nil {
		return verr
	}

	debt, err := h.debtService.UpdateDebt(userID, id, service.UpdateDebtInput(*input))
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		if verr := debtValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Failed to update debt")
		return NewInternalError(c, "Failed to update debt")
	}

	log.Info().Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Debt updated")

	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// AddPayment godoc
// @Summary Record a debt payment
// @Description Increase a debt's paid amount by the given amount
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param request body AddPaymentRequest true "Payment request"
// @Success 200 {object} DebtResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /debts/{id}/payments [post]
func (h *DebtHandler) AddPayment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	var req AddPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	debt, err := h.debtService.AddPayment(userID, id, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPaymentDelta) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Payment amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrDebtNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Failed to add payment")
		return NewInternalError(c, "Failed to add payment")
	}

	log.Info().Str("user_id", userID.String()).Str("debt_id", id.String()).Str("amount", amount.String()).Msg("Debt payment recorded")

	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// DeleteDebt godoc
// @Summary Delete a debt
// @Tags debts
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	if err := h.debtService.DeleteDebt(userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Failed to delete debt")
		return NewInternalError(c, "Failed to delete debt")
	}

	log.Info().Str("user_id", userID.String()).Str("debt_id", id.String()).Msg("Debt deleted")

	return c.NoContent(http.StatusNoContent)
}

// debtInput is the shared shape of create and update inputs.
type debtInput struct {
	Direction        domain.DebtDirection
	CounterpartyName string
	Reason           string
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	DueDate          *time.Time
	Notes            *string
}

func parseDebtInput(c echo.Context, req DebtRequest) (*debtInput, error) {
	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	paidAmount := decimal.Zero
	if req.PaidAmount != nil && *req.PaidAmount != "" {
		paidAmount, err = decimal.NewFromString(*req.PaidAmount)
		if err != nil {
			return nil, NewValidationError(c, "Invalid paid amount", []ValidationError{
				{Field: "paidAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, NewValidationError(c, "Invalid due date", []ValidationError{
				{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		normalized := domain.NormalizeDate(parsed)
		dueDate = &normalized
	}

	return &debtInput{
		Direction:        domain.DebtDirection(req.Direction),
		CounterpartyName: req.CounterpartyName,
		Reason:           req.Reason,
		TotalAmount:      totalAmount,
		PaidAmount:       paidAmount,
		DueDate:          dueDate,
		Notes:            req.Notes,
	}, nil
}

func debtValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDebtDirection):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "direction", Message: "Must be one of: owed, owing"},
		})
	case errors.Is(err, domain.ErrCounterpartyRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "counterpartyName", Message: "Counterparty name is required"},
		})
	case errors.Is(err, domain.ErrDebtReasonRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "reason", Message: "Reason is required"},
		})
	case errors.Is(err, domain.ErrInvalidDebtTotalAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalAmount", Message: "Total amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidDebtPaidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paidAmount", Message: "Paid amount cannot be negative"},
		})
	}
	return nil
}

func toDebtResponse(d *domain.Debt) DebtResponse {
	var dueDate *string
	if d.DueDate != nil {
		formatted := d.DueDate.Format("2006-01-02")
		dueDate = &formatted
	}
	return DebtResponse{
		ID:               d.ID.String(),
		Direction:        string(d.Direction),
		CounterpartyName: d.CounterpartyName,
		Reason:           d.Reason,
		TotalAmount:      d.TotalAmount.String(),
		PaidAmount:       d.PaidAmount.String(),
		Remaining:        d.Remaining().String(),
		Settled:          d.Settled(),
		DueDate:          dueDate,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.Format(time.RFC3339),
	}
}
