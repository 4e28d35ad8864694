package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/obs"
	"github.com/shibinphilip789/bagisto/internal/pricing"
)

// LinePriceUpdate carries all captured price fields for one line. The store
// must apply it as a single write; a partially repriced line is worse than a
// stale one.
type LinePriceUpdate struct {
	LineID    uuid.UUID
	Price     decimal.Decimal
	BasePrice decimal.Decimal
	Total     decimal.Decimal
	BaseTotal decimal.Decimal
}

// LineStore persists cart line price updates.
type LineStore interface {
	UpdateLinePrices(ctx context.Context, update LinePriceUpdate) error
}

// Result is the outcome of one line revalidation.
type Result struct {
	Inactive bool `json:"inactive"`
}

// Validator re-derives a cart line's price and active status from current
// catalog state.
type Validator struct {
	Lines    LineStore
	Currency pricing.CurrencyConverter
	Logger   zerolog.Logger
}

// Validate checks the line against current catalog state. An inactive product
// (or inactive child for composite and variant lines) returns immediately
// without touching prices; otherwise the captured prices are recomputed and
// persisted only when they changed.
func (v *Validator) Validate(ctx context.Context, scope *pricing.Scope, line *Line) (Result, error) {
	if v == nil || v.Lines == nil {
		return Result{}, errors.New("cart validator not configured")
	}
	if line == nil || line.Product == nil {
		return Result{}, errors.New("cart line has no product")
	}

	if lineInactive(line) {
		obs.ObserveCartRevalidation("inactive")
		return Result{Inactive: true}, nil
	}

	price, err := scope.FinalPrice(ctx, line.Product, line.Quantity)
	if err != nil {
		return Result{}, fmt.Errorf("resolve price for line %s: %w", line.ID, err)
	}
	price = price.Round(4)

	if price.Equal(line.BasePrice) {
		obs.ObserveCartRevalidation("unchanged")
		return Result{}, nil
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	update := LinePriceUpdate{
		LineID:    line.ID,
		BasePrice: price,
		Price:     v.convert(price),
		BaseTotal: price.Mul(qty),
		Total:     v.convert(price.Mul(qty)),
	}
	if err := v.Lines.UpdateLinePrices(ctx, update); err != nil {
		return Result{}, fmt.Errorf("persist reprice for line %s: %w", line.ID, err)
	}

	line.BasePrice = update.BasePrice
	line.Price = update.Price
	line.BaseTotal = update.BaseTotal
	line.Total = update.Total

	obs.ObserveCartRevalidation("repriced")
	v.Logger.Debug().
		Str("line_id", line.ID.String()).
		Str("base_price", price.String()).
		Msg("cart line repriced")
	return Result{}, nil
}

// lineInactive applies the per-kind inactivity rules: the product itself,
// any bundle child, or the selected variant child.
func lineInactive(line *Line) bool {
	if !line.Product.Active() {
		return true
	}
	t := line.Product.Type()
	switch {
	case t.HasVariants():
		if line.Child != nil && line.Child.Product != nil && !line.Child.Product.Active() {
			return true
		}
	case t.IsComposite():
		for _, child := range line.Children {
			if child != nil && child.Product != nil && !child.Product.Active() {
				return true
			}
		}
	}
	return false
}

func (v *Validator) convert(price decimal.Decimal) decimal.Decimal {
	if v.Currency == nil {
		return price
	}
	return v.Currency.Convert(price)
}
