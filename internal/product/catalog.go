package product

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/logger"
)

// Store is the persistence contract the catalog reads from.
type Store interface {
	ListActive(ctx context.Context) ([]Product, error)
	ListActiveByType(ctx context.Context, t Type) ([]Product, error)
}

// Catalog answers product queries for the bot and the REST API.
type Catalog struct {
	store Store
}

// NewCatalog builds a catalog over store.
func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

// ActiveProducts lists every active product.
func (c *Catalog) ActiveProducts(ctx context.Context) ([]Product, error) {
	return c.store.ListActive(ctx)
}

// ActiveTypes lists distinct types of active products in catalog order.
func (c *Catalog) ActiveTypes(ctx context.Context) ([]Type, error) {
	products, err := c.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[Type]struct{}, len(types))
	var out []Type
	for _, p := range products {
		if _, ok := seen[p.Type]; ok {
			continue
		}
		seen[p.Type] = struct{}{}
		out = append(out, p.Type)
	}
	return out, nil
}

// ActiveProductsOfType lists active products of type t.
func (c *Catalog) ActiveProductsOfType(ctx context.Context, t Type) ([]Product, error) {
	return c.store.ListActiveByType(ctx, t)
}

// SuitableProduct finds the product of type t accepting amount (base currency)
// for at least periodMonths. It returns ErrNotFound when nothing matches.
func (c *Catalog) SuitableProduct(ctx context.Context, t Type, amount decimal.Decimal, periodMonths int) (Product, error) {
	candidates, err := c.store.ListActiveByType(ctx, t)
	if err != nil {
		return Product{}, err
	}
	p, err := SelectSuitable(candidates, t, amount, periodMonths)
	attrs := []slog.Attr{
		slog.String("product_type", string(t)),
		slog.String("amount", amount.String()),
		slog.Int("period_months", periodMonths),
		slog.Int("count", len(candidates)),
	}
	if errors.Is(err, ErrNotFound) {
		logger.Info(ctx, "service.products", "product.match", append(attrs, slog.String("status", "skip"))...)
		return Product{}, err
	}
	logger.Debug(ctx, "service.products", "product.match",
		append(attrs, slog.String("status", "ok"), slog.Int64("product_id", p.ID))...)
	return p, err
}

// EntryProduct returns the entry-level product of type t: the one with the
// lowest minimum limit. Cards are offered on these terms without asking the
// user for an amount or period.
func (c *Catalog) EntryProduct(ctx context.Context, t Type) (Product, error) {
	candidates, err := c.store.ListActiveByType(ctx, t)
	if err != nil {
		return Product{}, err
	}
	var (
		best  Product
		found bool
	)
	for _, p := range candidates {
		if p.Type != t {
			continue
		}
		if !found || p.MinLimit.LessThan(best.MinLimit) ||
			(p.MinLimit.Equal(best.MinLimit) && better(p, best)) {
			best, found = p, true
		}
	}
	if !found {
		return Product{}, ErrNotFound
	}
	return best, nil
}
