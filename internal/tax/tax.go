// Package tax provides tax category rate lookup for price evaluation.
// Address resolution policy lives with the caller; this package only matches
// a category and address against configured zone rates.
package tax

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the destination used to pick an applicable tax rate.
type Address struct {
	Country string
	State   string
	Zip     string
}

// ZoneRate binds a tax percentage to a geographic zone. Empty fields match
// any value.
type ZoneRate struct {
	Country string
	State   string
	Zip     string
	Percent decimal.Decimal
}

// Matches reports whether the zone covers the address.
func (z ZoneRate) Matches(addr Address) bool {
	if z.Country != "" && !strings.EqualFold(z.Country, addr.Country) {
		return false
	}
	if z.State != "" && !strings.EqualFold(z.State, addr.State) {
		return false
	}
	if z.Zip != "" && z.Zip != addr.Zip {
		return false
	}
	return true
}

// Calculator resolves applicable tax rates from a static rate table keyed by
// tax category. It satisfies the tax capability the pricing facade consumes.
type Calculator struct {
	Inclusive bool
	Default   Address
	Rates     map[uuid.UUID][]ZoneRate
}

// ApplicableRate returns the first zone rate of the category matching the
// address. ok is false when the category is unknown or no zone matches.
func (c *Calculator) ApplicableRate(ctx context.Context, taxCategoryID uuid.UUID, addr Address) (decimal.Decimal, bool, error) {
	if c == nil {
		return decimal.Zero, false, nil
	}
	for _, zone := range c.Rates[taxCategoryID] {
		if zone.Matches(addr) {
			return zone.Percent, true, nil
		}
	}
	return decimal.Zero, false, nil
}

// InclusiveMode reports whether displayed prices include tax.
func (c *Calculator) InclusiveMode() bool {
	return c != nil && c.Inclusive
}

// DefaultAddress returns the fallback address used when the requester has no
// resolved address.
func (c *Calculator) DefaultAddress() Address {
	if c == nil {
		return Address{}
	}
	return c.Default
}
