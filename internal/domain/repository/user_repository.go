package repository

import (
	"context"

	"github.com/gestorly/catalog-api/internal/domain/entity"
)

// UserRepository defines user persistence bound to one Store handle.
// Phone values passed in are expected in their normalized digits-only form.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
}
