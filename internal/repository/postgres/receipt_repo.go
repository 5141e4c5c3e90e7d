package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sikaops/sika-backend/internal/domain"
)

var receiptColumns = []string{"id", "owner_id", "transaction_id", "thumb_path", "display_path", "original_path", "created_at"}

// ReceiptRepository implements domain.ReceiptRepository using PostgreSQL
type ReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository creates a new ReceiptRepository
func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

// Upsert stores the receipt record, replacing any existing one for the
// transaction.
func (r *ReceiptRepository) Upsert(receipt *domain.Receipt) (*domain.Receipt, error) {
	sql, args, err := psql.Insert("receipts").
		Columns("id", "owner_id", "transaction_id", "thumb_path", "display_path", "original_path").
		Values(
			receipt.ID, receipt.OwnerID, receipt.TransactionID,
			receipt.ThumbPath, receipt.DisplayPath, receipt.OriginalPath,
		).
		Suffix(`ON CONFLICT (transaction_id) DO UPDATE SET
			id = EXCLUDED.id,
			thumb_path = EXCLUDED.thumb_path,
			display_path = EXCLUDED.display_path,
			original_path = EXCLUDED.original_path,
			created_at = now()
		RETURNING ` + returning(receiptColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanReceipt(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByTransaction retrieves a transaction's receipt
func (r *ReceiptRepository) GetByTransaction(ownerID, transactionID uuid.UUID) (*domain.Receipt, error) {
	sql, args, err := psql.Select(receiptColumns...).
		From("receipts").
		Where(squirrel.Eq{"owner_id": ownerID, "transaction_id": transactionID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanReceipt(r.pool.QueryRow(context.Background(), sql, args...))
}

// Delete removes a transaction's receipt record
func (r *ReceiptRepository) Delete(ownerID, transactionID uuid.UUID) error {
	sql, args, err := psql.Delete("receipts").
		Where(squirrel.Eq{"owner_id": ownerID, "transaction_id": transactionID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(context.Background(), sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceiptRepository) scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var rec domain.Receipt
	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.TransactionID,
		&rec.ThumbPath, &rec.DisplayPath, &rec.OriginalPath, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
