package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestorly/catalog-api/internal/domain/repository"
)

// Factory hands out unit-of-work store handles backed by pooled pgx
// connections. Each Acquire checks a connection out of the pool; Release
// returns it. A handle is owned exclusively by the operation that
// acquired it.
type Factory struct {
	pool *pgxpool.Pool
}

func NewFactory(pool *pgxpool.Pool) *Factory {
	return &Factory{pool: pool}
}

func (f *Factory) Acquire(ctx context.Context) (repository.Store, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &store{conn: conn}, nil
}

type store struct {
	conn *pgxpool.Conn
}

func (s *store) Users() repository.UserRepository       { return &UserRepository{conn: s.conn} }
func (s *store) Products() repository.ProductRepository { return &ProductRepository{conn: s.conn} }
func (s *store) Options() repository.OptionRepository   { return &OptionRepository{conn: s.conn} }

func (s *store) Release() {
	s.conn.Release()
}

var _ repository.Factory = (*Factory)(nil)
