package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/websocket"
)

// DebtService handles debt-related business logic
type DebtService struct {
	debtRepo       domain.DebtRepository
	eventPublisher websocket.EventPublisher
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo domain.DebtRepository) *DebtService {
	return &DebtService{debtRepo: debtRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *DebtService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *DebtService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateDebtInput holds the input for creating a debt
type CreateDebtInput struct {
	Direction        domain.DebtDirection
	CounterpartyName string
	Reason           string
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	DueDate          *time.Time
	Notes            *string
}

// CreateDebt creates a new debt with validation. PaidAmount may start
// above zero for debts recorded mid-repayment.
func (s *DebtService) CreateDebt(ownerID uuid.UUID, input CreateDebtInput) (*domain.Debt, error) {
	debt := &domain.Debt{
		OwnerID:          ownerID,
		Direction:        input.Direction,
		CounterpartyName: strings.TrimSpace(input.CounterpartyName),
		Reason:           strings.TrimSpace(input.Reason),
		TotalAmount:      input.TotalAmount,
		PaidAmount:       input.PaidAmount,
		DueDate:          input.DueDate,
		Notes:            normalizeNotes(input.Notes),
	}
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	created, err := s.debtRepo.Create(debt)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.DebtCreated(created))
	return created, nil
}

// GetDebts retrieves all debts for an owner.
func (s *DebtService) GetDebts(ownerID uuid.UUID) ([]*domain.Debt, error) {
	return s.debtRepo.GetByOwner(ownerID)
}

// GetDebtByID retrieves a single debt owned by ownerID.
func (s *DebtService) GetDebtByID(ownerID, id uuid.UUID) (*domain.Debt, error) {
	return s.debtRepo.GetByID(ownerID, id)
}

// GetTotals sums outstanding amounts per direction across all of the
// owner's debts.
func (s *DebtService) GetTotals(ownerID uuid.UUID) (*domain.DebtTotals, error) {
	debts, err := s.debtRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	totals := &domain.DebtTotals{OwedToUser: decimal.Zero, UserOwes: decimal.Zero}
	for _, d := range debts {
		switch d.Direction {
		case domain.DebtOwed:
			totals.OwedToUser = totals.OwedToUser.Add(d.Remaining())
		case domain.DebtOwing:
			totals.UserOwes = totals.UserOwes.Add(d.Remaining())
		}
	}
	return totals, nil
}

// UpdateDebtInput holds the input for updating a debt. Updates are full
// replacements; corrections to a mistaken payment go through here.
type UpdateDebtInput struct {
	Direction        domain.DebtDirection
	CounterpartyName string
	Reason           string
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	DueDate          *time.Time
	Notes            *string
}

// UpdateDebt replaces an existing debt's fields with validation.
func (s *DebtService) UpdateDebt(ownerID, id uuid.UUID, input UpdateDebtInput) (*domain.Debt, error) {
	existing, err := s.debtRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	debt := &domain.Debt{
		ID:               existing.ID,
		OwnerID:          ownerID,
		Direction:        input.Direction,
		CounterpartyName: strings.TrimSpace(input.CounterpartyName),
		Reason:           strings.TrimSpace(input.Reason),
		TotalAmount:      input.TotalAmount,
		PaidAmount:       input.PaidAmount,
		DueDate:          input.DueDate,
		Notes:            normalizeNotes(input.Notes),
	}
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.debtRepo.Update(debt)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.DebtUpdated(updated))
	return updated, nil
}

// AddPayment records a payment against a debt, growing its paid amount by
// delta. Delta must be positive; there is no payment reversal.
func (s *DebtService) AddPayment(ownerID, id uuid.UUID, delta decimal.Decimal) (*domain.Debt, error) {
	if delta.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidPaymentDelta
	}

	debt, err := s.debtRepo.AddPayment(ownerID, id, delta)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.DebtPaymentAdded(debt))
	return debt, nil
}

// DeleteDebt removes a debt. Deleting a missing debt is not an error.
func (s *DebtService) DeleteDebt(ownerID, id uuid.UUID) error {
	err := s.debtRepo.Delete(ownerID, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDebtNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.DebtDeleted(map[string]interface{}{"id": id}))
	return nil
}
