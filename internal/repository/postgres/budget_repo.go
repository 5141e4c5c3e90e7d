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

var budgetColumns = []string{"id", "owner_id", "category", "amount", "period", "created_at", "updated_at"}

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	sql, args, err := psql.Insert("budgets").
		Columns("owner_id", "category", "amount", "period").
		Values(budget.OwnerID, budget.Category, budget.Amount, budget.Period).
		Suffix("RETURNING " + returning(budgetColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanBudget(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByID retrieves a budget by ID within an owner's data
func (r *BudgetRepository) GetByID(ownerID, id uuid.UUID) (*domain.Budget, error) {
	sql, args, err := psql.Select(budgetColumns...).
		From("budgets").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanBudget(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByOwner retrieves all of an owner's budgets, newest first.
func (r *BudgetRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Budget, error) {
	sql, args, err := psql.Select(budgetColumns...).
		From("budgets").
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

	budgets := []*domain.Budget{}
	for rows.Next() {
		b, err := r.scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Update replaces a budget's fields
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	sql, args, err := psql.Update("budgets").
		Set("category", budget.Category).
		Set("amount", budget.Amount).
		Set("period", budget.Period).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_id": budget.OwnerID, "id": budget.ID}).
		Suffix("RETURNING " + returning(budgetColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanBudget(r.pool.QueryRow(context.Background(), sql, args...))
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ownerID, id uuid.UUID) error {
	sql, args, err := psql.Delete("budgets").
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
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.OwnerID, &b.Category, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}
