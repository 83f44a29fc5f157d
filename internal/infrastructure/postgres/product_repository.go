package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

// likeEscaper neutralizes LIKE metacharacters so user text always matches
// as a literal substring. Without it "100%" would match every name
// containing "100" and "_" would match any single character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProductRepository struct {
	conn *pgxpool.Conn
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, nil, nil)
}

// Search matches names case-insensitively (ILIKE); results are ordered by
// id so repeated calls over unchanged data return identical sequences.
func (r *ProductRepository) Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error) {
	return r.query(ctx, namePattern, isActive)
}

func (r *ProductRepository) query(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error) {
	if namePattern != nil {
		escaped := likeEscaper.Replace(*namePattern)
		namePattern = &escaped
	}
	query := `
		SELECT id, name, stock, active, COALESCE(supplier_name, '')
		FROM products
		WHERE ($1::text IS NULL OR name ILIKE '%' || $1 || '%')
		  AND ($2::boolean IS NULL OR active = $2)
		ORDER BY id
	`
	rows, err := r.conn.Query(ctx, query, namePattern, isActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]entity.Product, 0)
	index := make(map[int64]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Active, &p.SupplierName); err != nil {
			return nil, err
		}
		p.Options = make([]entity.Option, 0)
		index[p.ID] = len(products)
		ids = append(ids, p.ID)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	if err := r.loadOptions(ctx, ids, index, products); err != nil {
		return nil, err
	}
	return products, nil
}

// loadOptions eagerly attaches the option collections to their parents.
func (r *ProductRepository) loadOptions(ctx context.Context, ids []int64, index map[int64]int, products []entity.Product) error {
	rows, err := r.conn.Query(ctx, `
		SELECT id, name, product_id, active, version
		FROM options
		WHERE product_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o entity.Option
		if err := rows.Scan(&o.ID, &o.Name, &o.ProductID, &o.Active, &o.Version); err != nil {
			return err
		}
		if i, ok := index[o.ProductID]; ok {
			products[i].Options = append(products[i].Options, o)
		}
	}
	return rows.Err()
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
