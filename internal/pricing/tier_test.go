package pricing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shibinphilip789/bagisto/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func groupPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func TestResolveTierPrice(t *testing.T) {
	group := uuid.MustParse("00000000-0000-0000-0000-000000000007")
	other := uuid.MustParse("00000000-0000-0000-0000-000000000009")
	base := dec("100")

	t.Run("no tiers returns base price", func(t *testing.T) {
		got := pricing.ResolveTierPrice(base, nil, 5, group)
		require.True(t, base.Equal(got))
	})

	t.Run("quantity below threshold returns base price", func(t *testing.T) {
		tiers := []pricing.Tier{{Qty: 10, Value: dec("50"), Kind: pricing.ValueFixed}}
		got := pricing.ResolveTierPrice(base, tiers, 5, group)
		require.True(t, base.Equal(got))
	})

	t.Run("zero or negative quantity treated as one", func(t *testing.T) {
		tiers := []pricing.Tier{{Qty: 1, Value: dec("80"), Kind: pricing.ValueFixed}}
		require.True(t, dec("80").Equal(pricing.ResolveTierPrice(base, tiers, 0, group)))
		require.True(t, dec("80").Equal(pricing.ResolveTierPrice(base, tiers, -3, group)))
	})

	t.Run("higher met threshold wins", func(t *testing.T) {
		tiers := []pricing.Tier{
			{Qty: 2, Value: dec("90"), Kind: pricing.ValueFixed},
			{Qty: 5, Value: dec("70"), Kind: pricing.ValueFixed},
		}
		require.True(t, dec("90").Equal(pricing.ResolveTierPrice(base, tiers, 3, group)))
		require.True(t, dec("70").Equal(pricing.ResolveTierPrice(base, tiers, 5, group)))
	})

	t.Run("group specific beats group agnostic at equal threshold", func(t *testing.T) {
		agnostic := pricing.Tier{Qty: 5, Value: dec("80"), Kind: pricing.ValueFixed}
		specific := pricing.Tier{Qty: 5, GroupID: groupPtr(group), Value: dec("70"), Kind: pricing.ValueFixed}

		for name, tiers := range map[string][]pricing.Tier{
			"agnostic first": {agnostic, specific},
			"specific first": {specific, agnostic},
		} {
			got := pricing.ResolveTierPrice(base, tiers, 5, group)
			require.True(t, dec("70").Equal(got), "order %s resolved %s", name, got)
		}
	})

	t.Run("tier for another group is ignored", func(t *testing.T) {
		tiers := []pricing.Tier{{Qty: 2, GroupID: groupPtr(other), Value: dec("10"), Kind: pricing.ValueFixed}}
		got := pricing.ResolveTierPrice(base, tiers, 5, group)
		require.True(t, base.Equal(got))
	})

	t.Run("percent discount bounds", func(t *testing.T) {
		zero := []pricing.Tier{{Qty: 2, Value: dec("0"), Kind: pricing.ValueDiscount}}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, zero, 5, group)))

		full := []pricing.Tier{{Qty: 2, Value: dec("100"), Kind: pricing.ValueDiscount}}
		require.True(t, pricing.ResolveTierPrice(base, full, 5, group).IsZero())

		over := []pricing.Tier{{Qty: 2, Value: dec("150"), Kind: pricing.ValueDiscount}}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, over, 5, group)))

		negative := []pricing.Tier{{Qty: 2, Value: dec("-5"), Kind: pricing.ValueDiscount}}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, negative, 5, group)))
	})

	t.Run("percent discount applies against base price", func(t *testing.T) {
		tiers := []pricing.Tier{{Qty: 3, Value: dec("25"), Kind: pricing.ValueDiscount}}
		require.True(t, dec("75").Equal(pricing.ResolveTierPrice(base, tiers, 3, group)))
	})

	t.Run("fixed value must undercut current best", func(t *testing.T) {
		tiers := []pricing.Tier{
			{Qty: 2, Value: dec("60"), Kind: pricing.ValueFixed},
			{Qty: 2, Value: dec("90"), Kind: pricing.ValueFixed},
		}
		require.True(t, dec("60").Equal(pricing.ResolveTierPrice(base, tiers, 2, group)))

		atBase := []pricing.Tier{{Qty: 2, Value: dec("100"), Kind: pricing.ValueFixed}}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, atBase, 2, group)))

		negative := []pricing.Tier{{Qty: 2, Value: dec("-1"), Kind: pricing.ValueFixed}}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, negative, 2, group)))
	})

	t.Run("malformed thresholds are skipped", func(t *testing.T) {
		tiers := []pricing.Tier{
			{Qty: 0, Value: dec("1"), Kind: pricing.ValueFixed},
			{Qty: -4, Value: dec("1"), Kind: pricing.ValueFixed},
		}
		require.True(t, base.Equal(pricing.ResolveTierPrice(base, tiers, 10, group)))
	})

	t.Run("result never exceeds base price", func(t *testing.T) {
		tiers := []pricing.Tier{
			{Qty: 2, Value: dec("95"), Kind: pricing.ValueFixed},
			{Qty: 3, Value: dec("10"), Kind: pricing.ValueDiscount},
			{Qty: 4, Value: dec("120"), Kind: pricing.ValueFixed},
			{Qty: 5, Value: dec("101"), Kind: pricing.ValueDiscount},
		}
		for qty := 1; qty <= 8; qty++ {
			got := pricing.ResolveTierPrice(base, tiers, qty, group)
			require.True(t, got.LessThanOrEqual(base), "qty %d resolved %s", qty, got)
		}
	})

	t.Run("ascending discounts are monotonic in quantity", func(t *testing.T) {
		tiers := []pricing.Tier{
			{Qty: 2, Value: dec("90"), Kind: pricing.ValueFixed},
			{Qty: 4, Value: dec("80"), Kind: pricing.ValueFixed},
			{Qty: 8, Value: dec("50"), Kind: pricing.ValueDiscount},
		}
		prev := pricing.ResolveTierPrice(base, tiers, 1, group)
		for qty := 2; qty <= 10; qty++ {
			got := pricing.ResolveTierPrice(base, tiers, qty, group)
			require.True(t, got.LessThanOrEqual(prev), "qty %d resolved %s after %s", qty, got, prev)
			prev = got
		}
	})
}
