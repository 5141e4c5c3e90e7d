package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"

	// EventTypePaymentAdded signals a debt payment
	EventTypePaymentAdded EventType = "payment_added"
	// EventTypeToggled signals a todo completion flip
	EventTypeToggled EventType = "toggled"
	// EventTypeImported signals a bulk CSV import
	EventTypeImported EventType = "imported"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeDebt        EntityType = "debt"
	EntityTypeNote        EntityType = "note"
	EntityTypeTodo        EntityType = "todo"
	EntityTypeReceipt     EntityType = "receipt"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// TransactionsImported creates a transaction.imported event
func TransactionsImported(payload interface{}) Event {
	return NewEvent(EventTypeImported, EntityTypeTransaction, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// BudgetDeleted creates a budget.deleted event
func BudgetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}

// DebtCreated creates a debt.created event
func DebtCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDebt, payload)
}

// DebtUpdated creates a debt.updated event
func DebtUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDebt, payload)
}

// DebtDeleted creates a debt.deleted event
func DebtDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDebt, payload)
}

// DebtPaymentAdded creates a debt.payment_added event
func DebtPaymentAdded(payload interface{}) Event {
	return NewEvent(EventTypePaymentAdded, EntityTypeDebt, payload)
}

// NoteCreated creates a note.created event
func NoteCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeNote, payload)
}

// NoteDeleted creates a note.deleted event
func NoteDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeNote, payload)
}

// TodoCreated creates a todo.created event
func TodoCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTodo, payload)
}

// TodoToggled creates a todo.toggled event
func TodoToggled(payload interface{}) Event {
	return NewEvent(EventTypeToggled, EntityTypeTodo, payload)
}

// TodoDeleted creates a todo.deleted event
func TodoDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTodo, payload)
}

// ReceiptCreated creates a receipt.created event
func ReceiptCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeReceipt, payload)
}

// ReceiptDeleted creates a receipt.deleted event
func ReceiptDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeReceipt, payload)
}
