package domain

import (
	"time"

	"github.com/google/uuid"
)

// Receipt links a transaction to its stored receipt image variants. A
// transaction has at most one receipt; re-uploading replaces it.
type Receipt struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId"`
	TransactionID uuid.UUID `json:"transactionId"`
	ThumbPath     string    `json:"-"`
	DisplayPath   string    `json:"-"`
	OriginalPath  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReceiptRepository interface {
	// Upsert stores the receipt, replacing any existing one for the same
	// transaction.
	Upsert(receipt *Receipt) (*Receipt, error)
	GetByTransaction(ownerID, transactionID uuid.UUID) (*Receipt, error)
	Delete(ownerID, transactionID uuid.UUID) error
}
