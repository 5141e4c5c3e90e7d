package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/util"
	"github.com/sikaops/sika-backend/internal/websocket"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher

	now func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BudgetService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   domain.BudgetPeriod
}

// CreateBudget creates a new budget with validation.
func (s *BudgetService) CreateBudget(ownerID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	budget := &domain.Budget{
		OwnerID:  ownerID,
		Category: input.Category,
		Amount:   input.Amount,
		Period:   input.Period,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.BudgetCreated(created))
	return created, nil
}

// GetBudgets retrieves all budgets for an owner together with their spent,
// remaining and percent-used figures for the current period.
func (s *BudgetService) GetBudgets(ownerID uuid.UUID) ([]*domain.BudgetStatus, error) {
	budgets, err := s.budgetRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	statuses := make([]*domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, s.status(b, transactions))
	}
	return statuses, nil
}

// GetBudgetByID retrieves a single budget with derived figures.
func (s *BudgetService) GetBudgetByID(ownerID, id uuid.UUID) (*domain.BudgetStatus, error) {
	budget, err := s.budgetRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.status(budget, transactions), nil
}

// UpdateBudgetInput holds the input for updating a budget
type UpdateBudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   domain.BudgetPeriod
}

// UpdateBudget replaces an existing budget's fields with validation.
func (s *BudgetService) UpdateBudget(ownerID, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	existing, err := s.budgetRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	budget := &domain.Budget{
		ID:       existing.ID,
		OwnerID:  ownerID,
		Category: input.Category,
		Amount:   input.Amount,
		Period:   input.Period,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.Update(budget)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget removes a budget. Deleting a missing budget is not an error.
func (s *BudgetService) DeleteBudget(ownerID, id uuid.UUID) error {
	err := s.budgetRepo.Delete(ownerID, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrBudgetNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.BudgetDeleted(map[string]interface{}{"id": id}))
	return nil
}

// status derives the spent total for the budget's current period. Only
// expense transactions in the budget's category count.
func (s *BudgetService) status(budget *domain.Budget, transactions []*domain.Transaction) *domain.BudgetStatus {
	now := s.now()
	var start, end time.Time
	if budget.Period == domain.BudgetPeriodYearly {
		start, end = util.StartOfYear(now), util.EndOfYear(now)
	} else {
		start, end = util.StartOfMonth(now), util.EndOfMonth(now)
	}

	spent := decimal.Zero
	for _, t := range transactions {
		if t.Kind != domain.KindExpense || t.Category != budget.Category {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	percent := 0.0
	if budget.Amount.IsPositive() {
		percent, _ = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &domain.BudgetStatus{
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Amount.Sub(spent),
		PercentUsed: percent,
	}
}
