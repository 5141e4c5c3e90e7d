package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidBudgetPeriod   = errors.New("period must be monthly or yearly")
	ErrInvalidBudgetCategory = errors.New("budget category must be an expense category")
	ErrInvalidBudgetAmount   = errors.New("budget amount must be positive")
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget is a spending ceiling for one expense category. The store does not
// enforce uniqueness per (owner, category); duplicates are returned as-is.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"ownerId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    BudgetPeriod    `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (b *Budget) Validate() error {
	if !ValidCategory(KindExpense, b.Category) {
		return ErrInvalidBudgetCategory
	}
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBudgetAmount
	}
	if b.Period != BudgetPeriodMonthly && b.Period != BudgetPeriodYearly {
		return ErrInvalidBudgetPeriod
	}
	return nil
}

// BudgetStatus is a budget with its derived figures for the current period.
// PercentUsed is deliberately unbounded: over-budget is a displayed state,
// not an error.
type BudgetStatus struct {
	Budget      *Budget         `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percentUsed"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(ownerID, id uuid.UUID) (*Budget, error)
	GetByOwner(ownerID uuid.UUID) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	Delete(ownerID, id uuid.UUID) error
}
