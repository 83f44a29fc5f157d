package repository

import (
	"context"

	"github.com/gestorly/catalog-api/internal/domain/entity"
)

// OptionRepository persists product options bound to one Store handle.
type OptionRepository interface {
	// Insert assigns ID and Version on success.
	Insert(ctx context.Context, o *entity.Option) error
	// Update replaces all fields at the held Version; ErrVersionConflict
	// when the row changed (or vanished) since it was read.
	Update(ctx context.Context, o *entity.Option) error
	// Delete is idempotent: deleting an id that does not exist is a no-op.
	Delete(ctx context.Context, id int64) error
}
