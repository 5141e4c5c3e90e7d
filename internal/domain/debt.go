package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDebtDirection    = errors.New("direction must be owed or owing")
	ErrCounterpartyRequired    = errors.New("counterparty name is required")
	ErrDebtReasonRequired      = errors.New("reason is required")
	ErrInvalidDebtTotalAmount  = errors.New("total amount must be positive")
	ErrInvalidDebtPaidAmount   = errors.New("paid amount cannot be negative")
	ErrInvalidPaymentDelta     = errors.New("payment amount must be positive")
)

type DebtDirection string

const (
	// DebtOwed is money owed to the user.
	DebtOwed DebtDirection = "owed"
	// DebtOwing is money the user owes.
	DebtOwing DebtDirection = "owing"
)

// Debt is a receivable or payable. PaidAmount only ever grows, through
// explicit payment additions; there is no payment reversal.
type Debt struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"ownerId"`
	Direction        DebtDirection   `json:"direction"`
	CounterpartyName string          `json:"counterpartyName"`
	Reason           string          `json:"reason"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (d *Debt) Validate() error {
	if d.Direction != DebtOwed && d.Direction != DebtOwing {
		return ErrInvalidDebtDirection
	}
	if strings.TrimSpace(d.CounterpartyName) == "" {
		return ErrCounterpartyRequired
	}
	if strings.TrimSpace(d.Reason) == "" {
		return ErrDebtReasonRequired
	}
	if d.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidDebtTotalAmount
	}
	if d.PaidAmount.IsNegative() {
		return ErrInvalidDebtPaidAmount
	}
	return nil
}

// Remaining returns totalAmount - paidAmount. May be negative on
// over-payment.
func (d *Debt) Remaining() decimal.Decimal {
	return d.TotalAmount.Sub(d.PaidAmount)
}

// Settled reports whether nothing remains to be paid. A settled debt never
// reopens; payments only increase PaidAmount.
func (d *Debt) Settled() bool {
	return d.Remaining().LessThanOrEqual(decimal.Zero)
}

// DebtTotals aggregates outstanding amounts per direction.
type DebtTotals struct {
	OwedToUser decimal.Decimal `json:"owedToUser"`
	UserOwes   decimal.Decimal `json:"userOwes"`
}

type DebtRepository interface {
	Create(debt *Debt) (*Debt, error)
	GetByID(ownerID, id uuid.UUID) (*Debt, error)
	GetByOwner(ownerID uuid.UUID) ([]*Debt, error)
	Update(debt *Debt) (*Debt, error)
	// AddPayment atomically increments PaidAmount by delta.
	AddPayment(ownerID, id uuid.UUID, delta decimal.Decimal) (*Debt, error)
	Delete(ownerID, id uuid.UUID) error
}
