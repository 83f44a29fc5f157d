package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

type OptionRepository struct {
	conn *pgxpool.Conn
}

func (r *OptionRepository) Insert(ctx context.Context, o *entity.Option) error {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO options (name, product_id, active)
		VALUES ($1, $2, $3)
		RETURNING id, version
	`, o.Name, o.ProductID, o.Active)

	if err := row.Scan(&o.ID, &o.Version); err != nil {
		return mapError(err)
	}
	return nil
}

// Update replaces all fields guarded by the held version. Zero rows
// affected means the row changed since it was read (or is gone), which is
// surfaced as a version conflict so the caller can reload.
func (r *OptionRepository) Update(ctx context.Context, o *entity.Option) error {
	row := r.conn.QueryRow(ctx, `
		UPDATE options
		SET name = $1, product_id = $2, active = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`, o.Name, o.ProductID, o.Active, o.ID, o.Version)

	if err := row.Scan(&o.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrVersionConflict
		}
		return mapError(err)
	}
	return nil
}

func (r *OptionRepository) Delete(ctx context.Context, id int64) error {
	// Idempotent: zero rows affected is fine.
	if _, err := r.conn.Exec(ctx, `DELETE FROM options WHERE id = $1`, id); err != nil {
		return mapError(err)
	}
	return nil
}

var _ repository.OptionRepository = (*OptionRepository)(nil)
