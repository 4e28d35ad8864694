// Package repo provides pgx-backed implementations of the catalog, pricing,
// cart, and inventory store interfaces.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/catalog"
)

// ProductsRepo loads catalog products.
type ProductsRepo struct {
	Pool *pgxpool.Pool
}

const productColumns = `
	id, sku, name, slug, type, status,
	price::text, special_price::text, weight::text,
	parent_id, tax_category_id`

// ProductBySlug loads a product and, for variants, its parent.
func (r ProductsRepo) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	row := r.Pool.QueryRow(ctx, `SELECT`+productColumns+` FROM products WHERE slug = $1`, slug)
	return r.scanProduct(ctx, row, true)
}

// ProductByID loads a product and, for variants, its parent.
func (r ProductsRepo) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	row := r.Pool.QueryRow(ctx, `SELECT`+productColumns+` FROM products WHERE id = $1`, id)
	return r.scanProduct(ctx, row, true)
}

// ChildrenOf loads the child products of a composite product.
func (r ProductsRepo) ChildrenOf(ctx context.Context, id uuid.UUID) ([]*catalog.Product, error) {
	rows, err := r.Pool.Query(ctx, `SELECT`+productColumns+` FROM products WHERE parent_id = $1 ORDER BY sku`, id)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	var children []*catalog.Product
	for rows.Next() {
		product, err := r.scanProduct(ctx, rows, false)
		if err != nil {
			return nil, err
		}
		children = append(children, product)
	}
	return children, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r ProductsRepo) scanProduct(ctx context.Context, row rowScanner, loadParent bool) (*catalog.Product, error) {
	var (
		p            catalog.Product
		kind         string
		price        string
		specialPrice *string
		weight       *string
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &kind, &p.Status,
		&price, &specialPrice, &weight,
		&p.ParentID, &p.TaxCategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.Kind = catalog.Kind(kind)
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	if specialPrice != nil {
		sp, err := decimal.NewFromString(*specialPrice)
		if err != nil {
			return nil, fmt.Errorf("parse special price: %w", err)
		}
		p.SpecialPrice = &sp
	}
	if weight != nil {
		if p.Weight, err = decimal.NewFromString(*weight); err != nil {
			return nil, fmt.Errorf("parse weight: %w", err)
		}
	}

	if loadParent && p.ParentID != nil {
		parent, err := r.ProductByID(ctx, *p.ParentID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("load parent: %w", err)
		}
		p.Parent = parent
	}
	return &p, nil
}
