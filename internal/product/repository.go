package product

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository reads catalog entries from Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open connection pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectProducts = `
	SELECT id, type, name, min_limit, max_limit, interest_rate, period_months, status
	FROM products
	WHERE status = $1`

const orderProducts = ` ORDER BY min_limit, interest_rate, id`

// ListActive returns every active product.
func (r *Repository) ListActive(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := r.db.SelectContext(ctx, &out, selectProducts+orderProducts, StatusActive); err != nil {
		return nil, fmt.Errorf("select active products: %w", err)
	}
	return out, nil
}

// ListActiveByType returns active products of the given type.
func (r *Repository) ListActiveByType(ctx context.Context, t Type) ([]Product, error) {
	var out []Product
	query := selectProducts + ` AND type = $2` + orderProducts
	if err := r.db.SelectContext(ctx, &out, query, StatusActive, t); err != nil {
		return nil, fmt.Errorf("select active products of type %s: %w", t, err)
	}
	return out, nil
}
