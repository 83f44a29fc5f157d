package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

type UserRepository struct {
	conn *pgxpool.Conn
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1)`, phone)
}

func (r *UserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var found bool
	if err := r.conn.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.conn.QueryRow(ctx, `
		SELECT id, username, COALESCE(last_name, ''), email, phone, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	if err := row.Scan(&u.ID, &u.Username, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	var lastName *string
	if u.LastName != "" {
		lastName = &u.LastName
	}
	row := r.conn.QueryRow(ctx, `
		INSERT INTO users (username, last_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Username, lastName, u.Email, u.Phone, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
