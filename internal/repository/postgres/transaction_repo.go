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

var transactionColumns = []string{
	"id", "owner_id", "date", "kind", "description", "category",
	"amount", "payment_method", "notes", "created_at", "updated_at",
}

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new transaction and returns it with store-assigned
// fields populated.
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	sql, args, err := psql.Insert("transactions").
		Columns("owner_id", "date", "kind", "description", "category", "amount", "payment_method", "notes").
		Values(
			transaction.OwnerID, transaction.Date, transaction.Kind,
			transaction.Description, transaction.Category, transaction.Amount,
			transaction.PaymentMethod, transaction.Notes,
		).
		Suffix("RETURNING " + returning(transactionColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanTransaction(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByID retrieves a transaction by ID within an owner's data
func (r *TransactionRepository) GetByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	sql, args, err := psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanTransaction(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByOwner retrieves all of an owner's transactions, newest date first.
func (r *TransactionRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Transaction, error) {
	sql, args, err := psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// CreateBatch inserts many transactions in one statement (CSV import).
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := psql.Insert("transactions").
		Columns("owner_id", "date", "kind", "description", "category", "amount", "payment_method", "notes")
	for _, t := range transactions {
		builder = builder.Values(
			t.OwnerID, t.Date, t.Kind, t.Description, t.Category,
			t.Amount, t.PaymentMethod, t.Notes,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(context.Background(), sql, args...)
	return err
}

// Update replaces a transaction's fields
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	sql, args, err := psql.Update("transactions").
		Set("date", transaction.Date).
		Set("kind", transaction.Kind).
		Set("description", transaction.Description).
		Set("category", transaction.Category).
		Set("amount", transaction.Amount).
		Set("payment_method", transaction.PaymentMethod).
		Set("notes", transaction.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_id": transaction.OwnerID, "id": transaction.ID}).
		Suffix("RETURNING " + returning(transactionColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanTransaction(r.pool.QueryRow(context.Background(), sql, args...))
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ownerID, id uuid.UUID) error {
	sql, args, err := psql.Delete("transactions").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(context.Background(), sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Date, &t.Kind, &t.Description, &t.Category,
		&t.Amount, &t.PaymentMethod, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}
