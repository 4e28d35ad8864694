package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/tax"
)

// TierStore loads the customer group price rules authored for a product.
type TierStore interface {
	TiersForProduct(ctx context.Context, productID uuid.UUID) ([]Tier, error)
}

// IndexStore loads precomputed price index rows for a product, one per
// customer group.
type IndexStore interface {
	EntriesForProduct(ctx context.Context, productID uuid.UUID) ([]IndexEntry, error)
}

// GroupProvider resolves the requesting customer's group.
type GroupProvider interface {
	CurrentGroup(ctx context.Context) (uuid.UUID, error)
}

// TaxCalculator is the tax capability the pricing facade consumes.
type TaxCalculator interface {
	ApplicableRate(ctx context.Context, taxCategoryID uuid.UUID, addr tax.Address) (decimal.Decimal, bool, error)
	InclusiveMode() bool
	DefaultAddress() tax.Address
}

// CurrencyConverter converts and formats prices for display.
type CurrencyConverter interface {
	Convert(price decimal.Decimal) decimal.Decimal
	Format(price decimal.Decimal) string
}
