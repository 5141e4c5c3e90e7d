package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
)

var debtColumns = []string{
	"id", "owner_id", "direction", "counterparty_name", "reason",
	"total_amount", "paid_amount", "due_date", "notes", "created_at", "updated_at",
}

// DebtRepository implements domain.DebtRepository using PostgreSQL
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

// Create inserts a new debt
func (r *DebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	sql, args, err := psql.Insert("debts").
		Columns("owner_id", "direction", "counterparty_name", "reason", "total_amount", "paid_amount", "due_date", "notes").
		Values(
			debt.OwnerID, debt.Direction, debt.CounterpartyName, debt.Reason,
			debt.TotalAmount, debt.PaidAmount, debt.DueDate, debt.Notes,
		).
		Suffix("RETURNING " + returning(debtColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanDebt(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByID retrieves a debt by ID within an owner's data
func (r *DebtRepository) GetByID(ownerID, id uuid.UUID) (*domain.Debt, error) {
	sql, args, err := psql.Select(debtColumns...).
		From("debts").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanDebt(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByOwner retrieves all of an owner's debts, newest first.
func (r *DebtRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Debt, error) {
	sql, args, err := psql.Select(debtColumns...).
		From("debts").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := []*domain.Debt{}
	for rows.Next() {
		d, err := r.scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// Update replaces a debt's fields
func (r *DebtRepository) Update(debt *domain.Debt) (*domain.Debt, error) {
	sql, args, err := psql.Update("debts").
		Set("direction", debt.Direction).
		Set("counterparty_name", debt.CounterpartyName).
		Set("reason", debt.Reason).
		Set("total_amount", debt.TotalAmount).
		Set("paid_amount", debt.PaidAmount).
		Set("due_date", debt.DueDate).
		Set("notes", debt.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_id": debt.OwnerID, "id": debt.ID}).
		Suffix("RETURNING " + returning(debtColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanDebt(r.pool.QueryRow(context.Background(), sql, args...))
}

// AddPayment atomically grows a debt's paid amount by delta.
func (r *DebtRepository) AddPayment(ownerID, id uuid.UUID, delta decimal.Decimal) (*domain.Debt, error) {
	sql, args, err := psql.Update("debts").
		Set("paid_amount", squirrel.Expr("paid_amount + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		Suffix("RETURNING " + returning(debtColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanDebt(r.pool.QueryRow(context.Background(), sql, args...))
}

// Delete removes a debt
func (r *DebtRepository) Delete(ownerID, id uuid.UUID) error {
	sql, args, err := psql.Delete("debts").
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
		return domain.ErrDebtNotFound
	}
	return nil
}

func (r *DebtRepository) scanDebt(row pgx.Row) (*domain.Debt, error) {
	var d domain.Debt
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.Direction, &d.CounterpartyName, &d.Reason,
		&d.TotalAmount, &d.PaidAmount, &d.DueDate, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, err
	}
	return &d, nil
}
