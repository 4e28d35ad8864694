// Package currency converts base-currency amounts to the display currency and
// formats them for presentation.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Converter applies a fixed exchange rate and symbol for one display currency.
type Converter struct {
	Code   string
	Symbol string
	Rate   decimal.Decimal
}

// NewConverter constructs a Converter, defaulting to an identity rate.
func NewConverter(code, symbol string, rate decimal.Decimal) Converter {
	if rate.Sign() <= 0 {
		rate = decimal.NewFromInt(1)
	}
	return Converter{Code: code, Symbol: symbol, Rate: rate}
}

// Convert translates a base-currency amount into the display currency.
func (c Converter) Convert(price decimal.Decimal) decimal.Decimal {
	if c.Rate.Sign() <= 0 {
		return price
	}
	return price.Mul(c.Rate)
}

// Format renders an amount in the display currency with the configured symbol.
func (c Converter) Format(price decimal.Decimal) string {
	return fmt.Sprintf("%s%s", c.Symbol, c.Convert(price).StringFixed(2))
}
