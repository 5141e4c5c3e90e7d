package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// CreateBatch creates multiple transactions at once
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	for _, t := range transactions {
		if _, err := m.Create(t); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a transaction by ID, validating ownership
func (m *MockTransactionRepository) GetByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.OwnerID == ownerID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByOwner retrieves all transactions for an owner, newest date first
func (m *MockTransactionRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Transaction, error) {
	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.OwnerID != transaction.OwnerID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ownerID, id uuid.UUID) error {
	if t, ok := m.Transactions[id]; ok && t.OwnerID == ownerID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID, validating ownership
func (m *MockBudgetRepository) GetByID(ownerID, id uuid.UUID) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok && b.OwnerID == ownerID {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByOwner retrieves all budgets for an owner
func (m *MockBudgetRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Budget, error) {
	result := make([]*domain.Budget, 0)
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update updates an existing budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.OwnerID != budget.OwnerID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = time.Now()
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(ownerID, id uuid.UUID) error {
	if b, ok := m.Budgets[id]; ok && b.OwnerID == ownerID {
		delete(m.Budgets, id)
		return nil
	}
	return domain.ErrBudgetNotFound
}

// MockDebtRepository is a mock implementation of domain.DebtRepository
type MockDebtRepository struct {
	Debts map[uuid.UUID]*domain.Debt
}

// NewMockDebtRepository creates a new MockDebtRepository
func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{
		Debts: make(map[uuid.UUID]*domain.Debt),
	}
}

// Create creates a new debt
func (m *MockDebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	if debt.ID == uuid.Nil {
		debt.ID = uuid.New()
	}
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = debt.CreatedAt
	m.Debts[debt.ID] = debt
	return debt, nil
}

// GetByID retrieves a debt by ID, validating ownership
func (m *MockDebtRepository) GetByID(ownerID, id uuid.UUID) (*domain.Debt, error) {
	if d, ok := m.Debts[id]; ok && d.OwnerID == ownerID {
		return d, nil
	}
	return nil, domain.ErrDebtNotFound
}

// GetByOwner retrieves all debts for an owner
func (m *MockDebtRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Debt, error) {
	result := make([]*domain.Debt, 0)
	for _, d := range m.Debts {
		if d.OwnerID == ownerID {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update updates an existing debt
func (m *MockDebtRepository) Update(debt *domain.Debt) (*domain.Debt, error) {
	existing, ok := m.Debts[debt.ID]
	if !ok || existing.OwnerID != debt.OwnerID {
		return nil, domain.ErrDebtNotFound
	}
	debt.CreatedAt = existing.CreatedAt
	debt.UpdatedAt = time.Now()
	m.Debts[debt.ID] = debt
	return debt, nil
}

// AddPayment increments a debt's paid amount by delta
func (m *MockDebtRepository) AddPayment(ownerID, id uuid.UUID, delta decimal.Decimal) (*domain.Debt, error) {
	d, ok := m.Debts[id]
	if !ok || d.OwnerID != ownerID {
		return nil, domain.ErrDebtNotFound
	}
	d.PaidAmount = d.PaidAmount.Add(delta)
	d.UpdatedAt = time.Now()
	return d, nil
}

// Delete removes a debt
func (m *MockDebtRepository) Delete(ownerID, id uuid.UUID) error {
	if d, ok := m.Debts[id]; ok && d.OwnerID == ownerID {
		delete(m.Debts, id)
		return nil
	}
	return domain.ErrDebtNotFound
}

// MockNoteRepository is a mock implementation of domain.NoteRepository
type MockNoteRepository struct {
	Notes map[uuid.UUID]*domain.Note
}

// NewMockNoteRepository creates a new MockNoteRepository
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		Notes: make(map[uuid.UUID]*domain.Note),
	}
}

// Create creates a new note
func (m *MockNoteRepository) Create(note *domain.Note) (*domain.Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now()
	m.Notes[note.ID] = note
	return note, nil
}

// GetByOwner retrieves all notes for an owner, newest first
func (m *MockNoteRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Note, error) {
	result := make([]*domain.Note, 0)
	for _, n := range m.Notes {
		if n.OwnerID == ownerID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a note
func (m *MockNoteRepository) Delete(ownerID, id uuid.UUID) error {
	if n, ok := m.Notes[id]; ok && n.OwnerID == ownerID {
		delete(m.Notes, id)
		return nil
	}
	return domain.ErrNoteNotFound
}

// MockTodoRepository is a mock implementation of domain.TodoRepository
type MockTodoRepository struct {
	Todos map[uuid.UUID]*domain.Todo
}

// NewMockTodoRepository creates a new MockTodoRepository
func NewMockTodoRepository() *MockTodoRepository {
	return &MockTodoRepository{
		Todos: make(map[uuid.UUID]*domain.Todo),
	}
}

// Create creates a new todo
func (m *MockTodoRepository) Create(todo *domain.Todo) (*domain.Todo, error) {
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	todo.CreatedAt = time.Now()
	m.Todos[todo.ID] = todo
	return todo, nil
}

// GetByOwner retrieves all todos for an owner, newest first
func (m *MockTodoRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Todo, error) {
	result := make([]*domain.Todo, 0)
	for _, t := range m.Todos {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Toggle flips a todo's completed flag
func (m *MockTodoRepository) Toggle(ownerID, id uuid.UUID) (*domain.Todo, error) {
	t, ok := m.Todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTodoNotFound
	}
	t.Completed = !t.Completed
	return t, nil
}

// Delete removes a todo
func (m *MockTodoRepository) Delete(ownerID, id uuid.UUID) error {
	if t, ok := m.Todos[id]; ok && t.OwnerID == ownerID {
		delete(m.Todos, id)
		return nil
	}
	return domain.ErrTodoNotFound
}

// MockReceiptRepository is a mock implementation of domain.ReceiptRepository
type MockReceiptRepository struct {
	// Receipts keyed by transaction ID, one receipt per transaction
	Receipts map[uuid.UUID]*domain.Receipt
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		Receipts: make(map[uuid.UUID]*domain.Receipt),
	}
}

// Upsert stores the receipt, replacing any existing one for the transaction
func (m *MockReceiptRepository) Upsert(receipt *domain.Receipt) (*domain.Receipt, error) {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	receipt.CreatedAt = time.Now()
	m.Receipts[receipt.TransactionID] = receipt
	return receipt, nil
}

// GetByTransaction retrieves the receipt for a transaction
func (m *MockReceiptRepository) GetByTransaction(ownerID, transactionID uuid.UUID) (*domain.Receipt, error) {
	if r, ok := m.Receipts[transactionID]; ok && r.OwnerID == ownerID {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

// Delete removes the receipt for a transaction
func (m *MockReceiptRepository) Delete(ownerID, transactionID uuid.UUID) error {
	if r, ok := m.Receipts[transactionID]; ok && r.OwnerID == ownerID {
		delete(m.Receipts, transactionID)
		return nil
	}
	return domain.ErrNotFound
}

// MockReceiptStorage is an in-memory implementation of storage.ReceiptStorage
type MockReceiptStorage struct {
	Objects map[string][]byte
	// UploadErr, when set, is returned by every Upload call
	UploadErr error
}

// NewMockReceiptStorage creates a new MockReceiptStorage
func NewMockReceiptStorage() *MockReceiptStorage {
	return &MockReceiptStorage{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory
func (m *MockReceiptStorage) Upload(ctx context.Context, path string, reader io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.Objects[path] = data
	return path, nil
}

// Delete removes the object from memory
func (m *MockReceiptStorage) Delete(ctx context.Context, path string) error {
	delete(m.Objects, path)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReceiptStorage) GeneratePresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s", path), nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent pairs a user ID with the event published for them
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// EventTypes returns the types of all published events in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}
