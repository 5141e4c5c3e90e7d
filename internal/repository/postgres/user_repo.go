package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sikaops/sika-backend/internal/domain"
)

var userColumns = []string{"id", "auth0_id", "email", "name", "picture_url", "created_at", "updated_at"}

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	sql, args, err := psql.Select(userColumns...).
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	sql, args, err := psql.Select(userColumns...).
		From("users").
		Where("auth0_id = ?", auth0ID).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.pool.QueryRow(context.Background(), sql, args...))
}

// CreateOrGetByAuth0ID creates a new user or returns the existing one
// (upsert on login). Profile fields refresh on every login.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	sql, args, err := psql.Insert("users").
		Columns("auth0_id", "email", "name", "picture_url").
		Values(auth0ID, email, name, pictureURL).
		Suffix(`ON CONFLICT (auth0_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = COALESCE(EXCLUDED.name, users.name),
			picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
			updated_at = now()
		RETURNING id, auth0_id, email, name, picture_url, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.pool.QueryRow(context.Background(), sql, args...))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.PictureURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
