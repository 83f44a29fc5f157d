package repository

import (
	"context"

	"github.com/gestorly/catalog-api/internal/domain/entity"
)

// ProductRepository is the read side of the catalog. Both queries load the
// option collections eagerly and never track or mutate returned rows.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]entity.Product, error)
	// Search filters by substring name match and/or exact active flag;
	// nil filters are ignored and both are AND-combined when present.
	Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error)
}
