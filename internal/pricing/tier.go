package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind distinguishes how a tier value lowers the unit price.
type ValueKind string

// Supported tier value kinds.
const (
	// ValueFixed sets the unit price to the tier value outright.
	ValueFixed ValueKind = "fixed"
	// ValueDiscount applies the tier value as a percent discount off the base price.
	ValueDiscount ValueKind = "discount"
)

// Tier is a customer group price rule: at or above the threshold quantity the
// rule's value applies. A nil group id means the rule applies to all groups.
type Tier struct {
	Qty     int
	GroupID *uuid.UUID
	Value   decimal.Decimal
	Kind    ValueKind
}

// AppliesToGroup reports whether the tier targets the given customer group,
// either explicitly or by being group-agnostic.
func (t Tier) AppliesToGroup(groupID uuid.UUID) bool {
	return t.GroupID == nil || *t.GroupID == groupID
}

var hundred = decimal.NewFromInt(100)

// ResolveTierPrice selects the effective unit price for a quantity and
// customer group from the product's tiers. Tiers are consulted in the given
// order; higher met thresholds win, and at an exactly equal threshold a
// group-agnostic tier never displaces a group-specific best. Tiers with
// out-of-range values are skipped, so the result never exceeds basePrice.
func ResolveTierPrice(basePrice decimal.Decimal, tiers []Tier, qty int, groupID uuid.UUID) decimal.Decimal {
	if qty <= 0 {
		qty = 1
	}

	bestQty := 1
	bestPrice := basePrice
	var bestGroup *uuid.UUID

	for _, tier := range tiers {
		if !tier.AppliesToGroup(groupID) {
			continue
		}
		if tier.Qty <= 0 || tier.Qty > qty {
			continue
		}
		if tier.Qty < bestQty {
			continue
		}
		if tier.Qty == bestQty && bestGroup != nil && tier.GroupID == nil {
			continue
		}

		switch tier.Kind {
		case ValueDiscount:
			if tier.Value.IsNegative() || tier.Value.GreaterThan(hundred) {
				continue
			}
			bestPrice = basePrice.Sub(basePrice.Mul(tier.Value).Div(hundred))
		case ValueFixed:
			if tier.Value.IsNegative() || tier.Value.GreaterThanOrEqual(bestPrice) {
				continue
			}
			bestPrice = tier.Value
		default:
			continue
		}

		bestQty = tier.Qty
		bestGroup = tier.GroupID
	}

	return bestPrice
}
