package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/cart"
	"github.com/shibinphilip789/bagisto/internal/catalog"
)

// LinesRepo loads and updates cart lines.
type LinesRepo struct {
	Pool     *pgxpool.Pool
	Products ProductsRepo
}

const lineColumns = `
	id, cart_id, product_id, parent_line_id, sku, name, quantity,
	price::text, base_price::text, total::text, base_total::text,
	weight::text, total_weight::text, base_total_weight::text`

// LinesForCart returns the cart's top-level lines with child lines attached.
func (r LinesRepo) LinesForCart(ctx context.Context, cartID uuid.UUID) ([]*cart.Line, error) {
	rows, err := r.Pool.Query(ctx, `SELECT`+lineColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	type rawLine struct {
		line   *cart.Line
		parent *uuid.UUID
	}
	var raw []rawLine
	for rows.Next() {
		line, parentID, err := r.scanLine(rows)
		if err != nil {
			return nil, err
		}
		raw = append(raw, rawLine{line: line, parent: parentID})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*cart.Line, len(raw))
	for _, entry := range raw {
		byID[entry.line.ID] = entry.line
	}

	var top []*cart.Line
	for _, entry := range raw {
		if err := r.attachProduct(ctx, entry.line); err != nil {
			return nil, err
		}
		if entry.parent == nil {
			top = append(top, entry.line)
			continue
		}
		parent := byID[*entry.parent]
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, entry.line)
		if parent.Product != nil && parent.Product.Type().HasVariants() && parent.Child == nil {
			parent.Child = entry.line
		}
	}
	return top, nil
}

// FindLineByProduct locates a top-level line for the product in the cart.
func (r LinesRepo) FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*cart.Line, error) {
	row := r.Pool.QueryRow(ctx, `SELECT`+lineColumns+`
		FROM cart_items WHERE cart_id = $1 AND product_id = $2 AND parent_line_id IS NULL`, cartID, productID)
	line, _, err := r.scanLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachProduct(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLinePrices applies all captured price fields in one statement.
func (r LinesRepo) UpdateLinePrices(ctx context.Context, update cart.LinePriceUpdate) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE cart_items
		SET price = $2, base_price = $3, total = $4, base_total = $5
		WHERE id = $1`,
		update.LineID, update.Price, update.BasePrice, update.Total, update.BaseTotal)
	if err != nil {
		return fmt.Errorf("update line prices: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func (r LinesRepo) scanLine(row rowScanner) (*cart.Line, *uuid.UUID, error) {
	var (
		line     cart.Line
		parentID *uuid.UUID
		price, basePrice, total, baseTotal,
		weight, totalWeight, baseTotalWeight string
	)
	err := row.Scan(
		&line.ID, &line.CartID, &line.ProductID, &parentID, &line.SKU, &line.Name, &line.Quantity,
		&price, &basePrice, &total, &baseTotal,
		&weight, &totalWeight, &baseTotalWeight,
	)
	if err != nil {
		return nil, nil, err
	}
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&line.Price, price}, {&line.BasePrice, basePrice},
		{&line.Total, total}, {&line.BaseTotal, baseTotal},
		{&line.Weight, weight}, {&line.TotalWeight, totalWeight},
		{&line.BaseTotalWeight, baseTotalWeight},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, nil, fmt.Errorf("parse line amount: %w", err)
		}
	}
	return &line, parentID, nil
}

func (r LinesRepo) attachProduct(ctx context.Context, line *cart.Line) error {
	product, err := r.Products.ProductByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil
		}
		return err
	}
	line.Product = product
	return nil
}
