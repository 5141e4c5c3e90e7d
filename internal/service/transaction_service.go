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

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Date          *time.Time
	Kind          domain.TransactionKind
	Description   string
	Category      string
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         *string
}

// CreateTransaction creates a new transaction with validation. Category
// defaults to "Other" and payment method to "Cash" when omitted; the date
// defaults to today.
func (s *TransactionService) CreateTransaction(ownerID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	transaction := &domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(date),
		Kind:          input.Kind,
		Description:   strings.TrimSpace(input.Description),
		Category:      category,
		Amount:        input.Amount,
		PaymentMethod: paymentMethod,
		Notes:         normalizeNotes(input.Notes),
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves all transactions for an owner, newest first.
func (s *TransactionService) GetTransactions(ownerID uuid.UUID) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByOwner(ownerID)
}

// GetTransactionByID retrieves a single transaction owned by ownerID.
func (s *TransactionService) GetTransactionByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ownerID, id)
}

// UpdateTransactionInput holds the input for updating a transaction.
// Updates are full replacements; every field must be supplied.
type UpdateTransactionInput struct {
	Date          time.Time
	Kind          domain.TransactionKind
	Description   string
	Category      string
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         *string
}

// UpdateTransaction replaces an existing transaction's fields with
// validation.
func (s *TransactionService) UpdateTransaction(ownerID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:            existing.ID,
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(input.Date),
		Kind:          input.Kind,
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Notes:         normalizeNotes(input.Notes),
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction. Deleting a transaction that no
// longer exists is not an error.
func (s *TransactionService) DeleteTransaction(ownerID, id uuid.UUID) error {
	err := s.transactionRepo.Delete(ownerID, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTransactionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	return nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
