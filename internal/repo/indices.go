package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/pricing"
)

// IndicesRepo reads price index rows built by the external indexing job.
type IndicesRepo struct {
	Pool *pgxpool.Pool
}

// EntriesForProduct returns the index rows for a product, one per customer
// group.
func (r IndicesRepo) EntriesForProduct(ctx context.Context, productID uuid.UUID) ([]pricing.IndexEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT customer_group_id,
		       min_price::text, max_price::text,
		       regular_min_price::text, regular_max_price::text
		FROM product_price_indices
		WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("query price indices: %w", err)
	}
	defer rows.Close()

	var entries []pricing.IndexEntry
	for rows.Next() {
		var (
			entry                      pricing.IndexEntry
			minP, maxP, regMin, regMax string
		)
		if err := rows.Scan(&entry.GroupID, &minP, &maxP, &regMin, &regMax); err != nil {
			return nil, fmt.Errorf("scan price index: %w", err)
		}
		entry.ProductID = productID
		if entry.MinPrice, err = decimal.NewFromString(minP); err != nil {
			return nil, fmt.Errorf("parse min price: %w", err)
		}
		if entry.MaxPrice, err = decimal.NewFromString(maxP); err != nil {
			return nil, fmt.Errorf("parse max price: %w", err)
		}
		if entry.RegularMinPrice, err = decimal.NewFromString(regMin); err != nil {
			return nil, fmt.Errorf("parse regular min price: %w", err)
		}
		if entry.RegularMaxPrice, err = decimal.NewFromString(regMax); err != nil {
			return nil, fmt.Errorf("parse regular max price: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
