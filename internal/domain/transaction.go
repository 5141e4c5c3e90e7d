package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrInvalidKind          = errors.New("kind must be Income or Expense")
	ErrInvalidCategory      = errors.New("category does not belong to the transaction kind")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrNotesTooLong         = errors.New("notes exceed maximum length")
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "Income"
	KindExpense TransactionKind = "Expense"
)

// Category sets are disjoint per kind; a transaction's category must belong
// to the set matching its kind.
var (
	IncomeCategories  = []string{"Initial Balance", "Salary", "Freelance", "Investment", "Gift", "Other"}
	ExpenseCategories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Healthcare", "Education", "Other"}

	PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Digital Wallet", "Other"}
)

// Fallback values used by the CSV importer when a column is missing.
const (
	DefaultCategory      = "Other"
	DefaultPaymentMethod = "Cash"
)

// Transaction is a single financial event owned by exactly one user.
// Dates carry day-level granularity and are stored at a fixed noon time so
// inclusive day-range filters never shift a record across a day boundary.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	Date          time.Time       `json:"date"`
	Kind          TransactionKind `json:"kind"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NormalizeDate pins a calendar date to 12:00:00 UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// ValidKind reports whether k is a known transaction kind.
func ValidKind(k TransactionKind) bool {
	return k == KindIncome || k == KindExpense
}

// CategoriesForKind returns the category set matching the given kind.
func CategoriesForKind(k TransactionKind) []string {
	if k == KindIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}

// ValidCategory reports whether category belongs to the set matching kind.
func ValidCategory(k TransactionKind, category string) bool {
	for _, c := range CategoriesForKind(k) {
		if c == category {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrDescriptionRequired
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !ValidKind(t.Kind) {
		return ErrInvalidKind
	}
	if !ValidCategory(t.Kind, t.Category) {
		return ErrInvalidCategory
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !ValidPaymentMethod(t.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if t.Notes != nil && len(*t.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// TransactionFilter narrows a listing; nil fields mean no constraint.
// Date bounds are inclusive and EndDate is widened to end-of-day before
// matching.
type TransactionFilter struct {
	Kind      *TransactionKind
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(ownerID, id uuid.UUID) (*Transaction, error)
	// GetByOwner returns every transaction owned by ownerID, newest date
	// first. An owner with no records yields an empty slice, not an error.
	GetByOwner(ownerID uuid.UUID) ([]*Transaction, error)
	CreateBatch(transactions []*Transaction) error
	Update(transaction *Transaction) (*Transaction, error)
	Delete(ownerID, id uuid.UUID) error
}
