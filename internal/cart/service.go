package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/inventory"
	"github.com/shibinphilip789/bagisto/internal/pricing"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrInsufficientStock is returned when inventory cannot cover the requested
// quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrUnavailable is returned when the product is not saleable in the current
// scope.
var ErrUnavailable = errors.New("product unavailable")

type lineProvider interface {
	LinesForCart(ctx context.Context, cartID uuid.UUID) ([]*Line, error)
	FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*Line, error)
}

// Service encapsulates cart domain operations built on the pricing scope.
type Service struct {
	Catalog   *catalog.Service
	Pricer    *pricing.Pricer
	Inventory *inventory.Checker
	Currency  pricing.CurrencyConverter
	Lines     lineProvider
	Validator *Validator
}

// LinePayload is the prepared line produced by add-to-cart preparation. The
// caller persists it; this core only derives the captured values.
type LinePayload struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Kind      catalog.Kind    `json:"kind"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	BasePrice decimal.Decimal `json:"base_price"`
	Total     decimal.Decimal `json:"total"`
	BaseTotal decimal.Decimal `json:"base_total"`

	Weight          decimal.Decimal `json:"weight"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	BaseTotalWeight decimal.Decimal `json:"base_total_weight"`
}

// PrepareForCart normalizes the quantity, merges it with any existing line
// for the same product, checks inventory sufficiency, and captures the
// resolved price into a line payload.
func (s *Service) PrepareForCart(ctx context.Context, scope *pricing.Scope, cartID uuid.UUID, product *catalog.Product, qty int) (LinePayload, error) {
	if s == nil || s.Pricer == nil {
		return LinePayload{}, errors.New("cart service not configured")
	}
	if product == nil {
		return LinePayload{}, fmt.Errorf("product is required: %w", ErrInvalidInput)
	}
	if qty <= 0 {
		qty = 1
	}
	if qty > 1 && !product.Type().AllowsMultipleQty() {
		return LinePayload{}, fmt.Errorf("product allows a single unit per cart: %w", ErrInvalidInput)
	}
	if !scope.IsSaleable(product) {
		return LinePayload{}, fmt.Errorf("product %s is not saleable: %w", product.SKU, ErrUnavailable)
	}

	if s.Lines != nil && cartID != uuid.Nil {
		existing, err := s.Lines.FindLineByProduct(ctx, cartID, product.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return LinePayload{}, fmt.Errorf("find existing line: %w", err)
		}
		if existing != nil && existing.MatchesProduct(product.ID, product.ParentID) {
			qty += existing.Quantity
		}
	}

	if s.Inventory != nil {
		sufficient, err := s.Inventory.HaveSufficientQuantity(ctx, product, qty)
		if err != nil {
			return LinePayload{}, err
		}
		if !sufficient {
			return LinePayload{}, fmt.Errorf("requested %d units of %s: %w", qty, product.SKU, ErrInsufficientStock)
		}
	}

	price, err := scope.FinalPrice(ctx, product, qty)
	if err != nil {
		return LinePayload{}, err
	}

	qtyDec := decimal.NewFromInt(int64(qty))
	converted := s.convert(price)
	return LinePayload{
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Kind:            product.Kind,
		Quantity:        qty,
		Price:           converted,
		BasePrice:       price,
		Total:           converted.Mul(qtyDec),
		BaseTotal:       price.Mul(qtyDec),
		Weight:          product.Weight,
		TotalWeight:     product.Weight.Mul(qtyDec),
		BaseTotalWeight: product.Weight.Mul(qtyDec),
	}, nil
}

// LineResult pairs a validation outcome with its line.
type LineResult struct {
	LineID    uuid.UUID       `json:"line_id"`
	Inactive  bool            `json:"inactive"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// RevalidateCart re-validates every line of the cart within one resolution
// scope. Lines are processed serially; each line is written at most once.
func (s *Service) RevalidateCart(ctx context.Context, cartID uuid.UUID) ([]LineResult, error) {
	if s == nil || s.Lines == nil || s.Validator == nil || s.Pricer == nil {
		return nil, errors.New("cart service not configured")
	}
	lines, err := s.Lines.LinesForCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}

	scope := s.Pricer.NewScope()
	results := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		result, err := s.Validator.Validate(ctx, scope, line)
		if err != nil {
			return nil, err
		}
		results = append(results, LineResult{
			LineID:    line.ID,
			Inactive:  result.Inactive,
			BasePrice: line.BasePrice,
		})
	}
	return results, nil
}

func (s *Service) convert(price decimal.Decimal) decimal.Decimal {
	if s.Currency == nil {
		return price
	}
	return s.Currency.Convert(price)
}
