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

// TodoRepository implements domain.TodoRepository using PostgreSQL
type TodoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

// Create inserts a new todo
func (r *TodoRepository) Create(todo *domain.Todo) (*domain.Todo, error) {
	sql, args, err := psql.Insert("todos").
		Columns("owner_id", "text").
		Values(todo.OwnerID, todo.Text).
		Suffix("RETURNING id, owner_id, text, completed, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanTodo(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByOwner retrieves all of an owner's todos, newest first.
func (r *TodoRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Todo, error) {
	sql, args, err := psql.Select("id", "owner_id", "text", "completed", "created_at").
		From("todos").
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

	todos := []*domain.Todo{}
	for rows.Next() {
		t, err := r.scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Toggle flips a todo's completed flag
func (r *TodoRepository) Toggle(ownerID, id uuid.UUID) (*domain.Todo, error) {
	sql, args, err := psql.Update("todos").
		Set("completed", squirrel.Expr("NOT completed")).
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		Suffix("RETURNING id, owner_id, text, completed, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanTodo(r.pool.QueryRow(context.Background(), sql, args...))
}

// Delete removes a todo
func (r *TodoRepository) Delete(ownerID, id uuid.UUID) error {
	sql, args, err := psql.Delete("todos").
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
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return &t, nil
}
