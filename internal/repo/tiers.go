package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/pricing"
)

// TiersRepo loads customer group price rules.
type TiersRepo struct {
	Pool *pgxpool.Pool
}

// TiersForProduct returns all tiers authored for the product. Resolution
// order is a policy of the resolver, not of this query; the ordering here
// only keeps results stable.
func (r TiersRepo) TiersForProduct(ctx context.Context, productID uuid.UUID) ([]pricing.Tier, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT qty, customer_group_id, value::text, value_type
		FROM product_customer_group_prices
		WHERE product_id = $1
		ORDER BY qty, customer_group_id NULLS LAST`, productID)
	if err != nil {
		return nil, fmt.Errorf("query tiers: %w", err)
	}
	defer rows.Close()

	var tiers []pricing.Tier
	for rows.Next() {
		var (
			tier      pricing.Tier
			value     string
			valueType string
		)
		if err := rows.Scan(&tier.Qty, &tier.GroupID, &value, &valueType); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		if tier.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("parse tier value: %w", err)
		}
		if valueType == "discount" {
			tier.Kind = pricing.ValueDiscount
		} else {
			tier.Kind = pricing.ValueFixed
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}
