package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "github.com/emalsert/sr03devoir2/internal/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u repository.User
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, email, role
		FROM users
		WHERE email = $1
	`, email).Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u repository.User
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, email, role
		FROM users
		WHERE user_id = $1
	`, id).Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
