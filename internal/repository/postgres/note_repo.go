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

// NoteRepository implements domain.NoteRepository using PostgreSQL
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create inserts a new note
func (r *NoteRepository) Create(note *domain.Note) (*domain.Note, error) {
	sql, args, err := psql.Insert("notes").
		Columns("owner_id", "content").
		Values(note.OwnerID, note.Content).
		Suffix("RETURNING id, owner_id, content, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanNote(r.pool.QueryRow(context.Background(), sql, args...))
}

// GetByOwner retrieves all of an owner's notes, newest first.
func (r *NoteRepository) GetByOwner(ownerID uuid.UUID) ([]*domain.Note, error) {
	sql, args, err := psql.Select("id", "owner_id", "content", "created_at").
		From("notes").
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

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := r.scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes a note
func (r *NoteRepository) Delete(ownerID, id uuid.UUID) error {
	sql, args, err := psql.Delete("notes").
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
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return &n, nil
}
