package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/tax"
)

// TaxRatesRepo loads the tax zone rate table.
type TaxRatesRepo struct {
	Pool *pgxpool.Pool
}

// ZoneRates returns all zone rates grouped by tax category.
func (r TaxRatesRepo) ZoneRates(ctx context.Context) (map[uuid.UUID][]tax.ZoneRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT tax_category_id, country, state, zip_code, tax_rate::text
		FROM tax_rates`)
	if err != nil {
		return nil, fmt.Errorf("query tax rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[uuid.UUID][]tax.ZoneRate)
	for rows.Next() {
		var (
			categoryID uuid.UUID
			zone       tax.ZoneRate
			percent    string
		)
		if err := rows.Scan(&categoryID, &zone.Country, &zone.State, &zone.Zip, &percent); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		if zone.Percent, err = decimal.NewFromString(percent); err != nil {
			return nil, fmt.Errorf("parse tax rate: %w", err)
		}
		rates[categoryID] = append(rates[categoryID], zone)
	}
	return rates, rows.Err()
}
