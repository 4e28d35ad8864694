package cart_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shibinphilip789/bagisto/internal/cart"
	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type spyLineStore struct {
	writes  int
	updates []cart.LinePriceUpdate
}

func (s *spyLineStore) UpdateLinePrices(ctx context.Context, update cart.LinePriceUpdate) error {
	s.writes++
	s.updates = append(s.updates, update)
	return nil
}

type stubGroups struct{ group uuid.UUID }

func (s stubGroups) CurrentGroup(ctx context.Context) (uuid.UUID, error) {
	return s.group, nil
}

type stubTiers struct{ tiers map[uuid.UUID][]pricing.Tier }

func (s stubTiers) TiersForProduct(ctx context.Context, productID uuid.UUID) ([]pricing.Tier, error) {
	return s.tiers[productID], nil
}

func newValidatorScope(t *testing.T, tiers map[uuid.UUID][]pricing.Tier) *pricing.Scope {
	t.Helper()
	pricer := &pricing.Pricer{
		Groups: stubGroups{group: uuid.New()},
		Tiers:  stubTiers{tiers: tiers},
	}
	return pricer.NewScope()
}

func activeProduct(kind catalog.Kind, price string) *catalog.Product {
	return &catalog.Product{
		ID:     uuid.New(),
		SKU:    "sku-" + string(kind),
		Name:   "Product",
		Kind:   kind,
		Status: true,
		Price:  dec(price),
	}
}

func TestValidatorUnchangedPriceSkipsWrite(t *testing.T) {
	store := &spyLineStore{}
	validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}
	scope := newValidatorScope(t, nil)

	product := activeProduct(catalog.KindSimple, "100")
	line := &cart.Line{
		ID:        uuid.New(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  1,
		Price:     dec("100"),
		BasePrice: dec("100.0000"),
		Total:     dec("100"),
		BaseTotal: dec("100"),
	}

	result, err := validator.Validate(context.Background(), scope, line)
	require.NoError(t, err)
	require.False(t, result.Inactive)
	require.Equal(t, 0, store.writes)
	require.True(t, dec("100").Equal(line.BasePrice))
}

func TestValidatorRepricesChangedLine(t *testing.T) {
	store := &spyLineStore{}
	validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}

	product := activeProduct(catalog.KindSimple, "90")
	scope := newValidatorScope(t, nil)
	line := &cart.Line{
		ID:        uuid.New(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  2,
		Price:     dec("100"),
		BasePrice: dec("100"),
		Total:     dec("200"),
		BaseTotal: dec("200"),
	}

	result, err := validator.Validate(context.Background(), scope, line)
	require.NoError(t, err)
	require.False(t, result.Inactive)

	require.Equal(t, 1, store.writes)
	update := store.updates[0]
	require.Equal(t, line.ID, update.LineID)
	require.True(t, dec("90").Equal(update.BasePrice))
	require.True(t, dec("90").Equal(update.Price))
	require.True(t, dec("180").Equal(update.BaseTotal))
	require.True(t, dec("180").Equal(update.Total))

	require.True(t, dec("90").Equal(line.BasePrice))
	require.True(t, dec("90").Equal(line.Price))
	require.True(t, dec("180").Equal(line.BaseTotal))
	require.True(t, dec("180").Equal(line.Total))
}

func TestValidatorAppliesTierPriceForLineQuantity(t *testing.T) {
	store := &spyLineStore{}
	validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}

	product := activeProduct(catalog.KindSimple, "100")
	scope := newValidatorScope(t, map[uuid.UUID][]pricing.Tier{
		product.ID: {{Qty: 3, Value: dec("80"), Kind: pricing.ValueFixed}},
	})
	line := &cart.Line{
		ID:        uuid.New(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  3,
		BasePrice: dec("100"),
	}

	_, err := validator.Validate(context.Background(), scope, line)
	require.NoError(t, err)
	require.Equal(t, 1, store.writes)
	require.True(t, dec("80").Equal(line.BasePrice))
}

func TestValidatorInactiveLines(t *testing.T) {
	t.Run("inactive product", func(t *testing.T) {
		store := &spyLineStore{}
		validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}
		product := activeProduct(catalog.KindSimple, "100")
		product.Status = false
		line := &cart.Line{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 1, BasePrice: dec("50")}

		result, err := validator.Validate(context.Background(), newValidatorScope(t, nil), line)
		require.NoError(t, err)
		require.True(t, result.Inactive)
		require.Equal(t, 0, store.writes)
		require.True(t, dec("50").Equal(line.BasePrice))
	})

	t.Run("inactive variant child", func(t *testing.T) {
		store := &spyLineStore{}
		validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}
		parent := activeProduct(catalog.KindConfigurable, "100")
		child := activeProduct(catalog.KindSimple, "100")
		child.Status = false
		line := &cart.Line{
			ID:        uuid.New(),
			ProductID: parent.ID,
			Product:   parent,
			Child:     &cart.Line{ProductID: child.ID, Product: child},
			Quantity:  1,
		}

		result, err := validator.Validate(context.Background(), newValidatorScope(t, nil), line)
		require.NoError(t, err)
		require.True(t, result.Inactive)
		require.Equal(t, 0, store.writes)
	})

	t.Run("inactive bundle component", func(t *testing.T) {
		store := &spyLineStore{}
		validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}
		parent := activeProduct(catalog.KindBundle, "100")
		first := activeProduct(catalog.KindSimple, "40")
		second := activeProduct(catalog.KindSimple, "60")
		second.Status = false
		line := &cart.Line{
			ID:        uuid.New(),
			ProductID: parent.ID,
			Product:   parent,
			Children: []*cart.Line{
				{ProductID: first.ID, Product: first},
				{ProductID: second.ID, Product: second},
			},
			Quantity: 1,
		}

		result, err := validator.Validate(context.Background(), newValidatorScope(t, nil), line)
		require.NoError(t, err)
		require.True(t, result.Inactive)
		require.Equal(t, 0, store.writes)
	})

	t.Run("active bundle components pass through", func(t *testing.T) {
		store := &spyLineStore{}
		validator := &cart.Validator{Lines: store, Logger: zerolog.Nop()}
		parent := activeProduct(catalog.KindBundle, "100")
		child := activeProduct(catalog.KindSimple, "40")
		line := &cart.Line{
			ID:        uuid.New(),
			ProductID: parent.ID,
			Product:   parent,
			Children:  []*cart.Line{{ProductID: child.ID, Product: child}},
			Quantity:  1,
			BasePrice: dec("100"),
		}

		result, err := validator.Validate(context.Background(), newValidatorScope(t, nil), line)
		require.NoError(t, err)
		require.False(t, result.Inactive)
		require.Equal(t, 0, store.writes)
	})
}
