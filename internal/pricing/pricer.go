package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/obs"
)

// Pricer derives customer-facing prices for products: index-backed summaries,
// quantity tier resolution, customer group offers, and tax evaluation. It is
// long-lived; per-request state lives in the Scope it hands out.
type Pricer struct {
	Groups   GroupProvider
	Tiers    TierStore
	Indices  IndexStore
	Tax      TaxCalculator
	Currency CurrencyConverter

	// Saleable is an optional predicate layered over product status.
	Saleable catalog.SaleablePredicate
}

func (p *Pricer) validate() error {
	if p == nil {
		return errors.New("pricing: pricer not configured")
	}
	if p.Groups == nil {
		return errors.New("pricing: group provider is required")
	}
	if p.Tiers == nil {
		return errors.New("pricing: tier store is required")
	}
	return nil
}

// NewScope opens a resolution scope. Lookups made through the scope are
// memoized until the scope is discarded; a scope must not outlive the request
// it was opened for.
func (p *Pricer) NewScope() *Scope {
	return &Scope{
		pricer:   p,
		index:    NewIndexCache(p.Indices),
		saleable: catalog.NewSaleableChecks(),
		tiers:    make(map[uuid.UUID][]Tier),
	}
}

// Scope is one resolution pass over the catalog: a request-scoped view of the
// pricer with memoized group, tier, index, and saleability lookups.
type Scope struct {
	pricer   *Pricer
	index    *IndexCache
	saleable *catalog.SaleableChecks
	tiers    map[uuid.UUID][]Tier
	group    *uuid.UUID
}

// Invalidate clears all memoized state, returning the scope to its freshly
// opened condition.
func (s *Scope) Invalidate() {
	if s == nil {
		return
	}
	s.index.Invalidate()
	s.saleable.Invalidate()
	s.tiers = make(map[uuid.UUID][]Tier)
	s.group = nil
}

// CurrentGroup resolves and memoizes the requesting customer's group.
func (s *Scope) CurrentGroup(ctx context.Context) (uuid.UUID, error) {
	if err := s.pricer.validate(); err != nil {
		return uuid.Nil, err
	}
	if s.group != nil {
		return *s.group, nil
	}
	group, err := s.pricer.Groups.CurrentGroup(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve customer group: %w", err)
	}
	s.group = &group
	return group, nil
}

func (s *Scope) tiersFor(ctx context.Context, productID uuid.UUID) ([]Tier, error) {
	if tiers, ok := s.tiers[productID]; ok {
		return tiers, nil
	}
	tiers, err := s.pricer.Tiers.TiersForProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load price tiers for %s: %w", productID, err)
	}
	s.tiers[productID] = tiers
	return tiers, nil
}

func (s *Scope) entryFor(ctx context.Context, product *catalog.Product) (*IndexEntry, bool, error) {
	group, err := s.CurrentGroup(ctx)
	if err != nil {
		return nil, false, err
	}
	return s.index.Get(ctx, product.ID, group)
}

// MinimalPrice returns the indexed minimum price for the current group, or
// the base price when the index has no row.
func (s *Scope) MinimalPrice(ctx context.Context, product *catalog.Product) (decimal.Decimal, error) {
	entry, ok, err := s.entryFor(ctx, product)
	if err != nil || !ok {
		return product.Price, err
	}
	return entry.MinPrice, nil
}

// RegularMinimalPrice returns the indexed undiscounted minimum price, or the
// base price when the index has no row.
func (s *Scope) RegularMinimalPrice(ctx context.Context, product *catalog.Product) (decimal.Decimal, error) {
	entry, ok, err := s.entryFor(ctx, product)
	if err != nil || !ok {
		return product.Price, err
	}
	return entry.RegularMinPrice, nil
}

// MaximalPrice returns the indexed maximum price, or the base price when the
// index has no row.
func (s *Scope) MaximalPrice(ctx context.Context, product *catalog.Product) (decimal.Decimal, error) {
	entry, ok, err := s.entryFor(ctx, product)
	if err != nil || !ok {
		return product.Price, err
	}
	return entry.MaxPrice, nil
}

// RegularMaximalPrice returns the indexed undiscounted maximum price, or the
// base price when the index has no row.
func (s *Scope) RegularMaximalPrice(ctx context.Context, product *catalog.Product) (decimal.Decimal, error) {
	entry, ok, err := s.entryFor(ctx, product)
	if err != nil || !ok {
		return product.Price, err
	}
	return entry.RegularMaxPrice, nil
}

// FinalPrice returns the unit price for the quantity: the minimal price for a
// single unit, otherwise the resolved tier price for the current group.
func (s *Scope) FinalPrice(ctx context.Context, product *catalog.Product, qty int) (decimal.Decimal, error) {
	if qty <= 1 {
		return s.MinimalPrice(ctx, product)
	}
	return s.GroupPrice(ctx, product, qty)
}

// GroupPrice resolves the tier price for the product at the given quantity
// and the current customer group.
func (s *Scope) GroupPrice(ctx context.Context, product *catalog.Product, qty int) (decimal.Decimal, error) {
	if err := s.pricer.validate(); err != nil {
		return decimal.Zero, err
	}
	group, err := s.CurrentGroup(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	tiers, err := s.tiersFor(ctx, product.ID)
	if err != nil {
		return decimal.Zero, err
	}
	price := ResolveTierPrice(product.Price, tiers, qty, group)
	if price.LessThan(product.Price) {
		obs.ObservePriceResolution("discounted")
	} else {
		obs.ObservePriceResolution("base")
	}
	return price, nil
}

// HaveDiscount reports whether the index records a discounted minimum price
// for the current group.
func (s *Scope) HaveDiscount(ctx context.Context, product *catalog.Product) (bool, error) {
	entry, ok, err := s.entryFor(ctx, product)
	if err != nil || !ok {
		return false, err
	}
	return !entry.MinPrice.Equal(entry.RegularMinPrice), nil
}

// IsSaleable reports whether the product can currently be purchased. Results
// are memoized within the scope.
func (s *Scope) IsSaleable(product *catalog.Product) bool {
	return s.saleable.Check(product, s.pricer.Saleable)
}

// EvaluatePrice rounds the price for display and, in tax-inclusive mode, adds
// the applicable tax for the product's category and the default address. Each
// addend is rounded to four decimals before summing.
func (s *Scope) EvaluatePrice(ctx context.Context, product *catalog.Product, price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	calc := s.pricer.Tax
	if calc == nil || !calc.InclusiveMode() {
		return rounded, nil
	}
	categoryID := product.EffectiveTaxCategory()
	if categoryID == nil {
		return rounded, nil
	}
	rate, ok, err := calc.ApplicableRate(ctx, *categoryID, calc.DefaultAddress())
	if err != nil {
		return rounded, fmt.Errorf("resolve tax rate: %w", err)
	}
	if !ok {
		return rounded, nil
	}
	return rounded.Round(4).Add(rounded.Mul(rate).Div(hundred).Round(4)), nil
}

// Amount is a price in numeric and formatted form.
type Amount struct {
	Price     decimal.Decimal `json:"price"`
	Formatted string          `json:"formatted_price"`
}

// PriceSummary is the public regular/final price pair for a product.
type PriceSummary struct {
	Regular Amount `json:"regular_price"`
	Final   Amount `json:"final_price"`
}

// ProductPrices assembles the regular and final price summary, converted to
// the display currency.
func (s *Scope) ProductPrices(ctx context.Context, product *catalog.Product) (PriceSummary, error) {
	regular, err := s.EvaluatePrice(ctx, product, product.Price)
	if err != nil {
		return PriceSummary{}, err
	}
	minimal, err := s.MinimalPrice(ctx, product)
	if err != nil {
		return PriceSummary{}, err
	}
	final, err := s.EvaluatePrice(ctx, product, minimal)
	if err != nil {
		return PriceSummary{}, err
	}
	return PriceSummary{
		Regular: s.amount(regular),
		Final:   s.amount(final),
	}, nil
}

func (s *Scope) amount(price decimal.Decimal) Amount {
	conv := s.pricer.Currency
	if conv == nil {
		return Amount{Price: price, Formatted: price.StringFixed(2)}
	}
	return Amount{Price: conv.Convert(price), Formatted: conv.Format(price)}
}

// OfferLine is one customer group quantity offer for a product.
type OfferLine struct {
	Qty             int             `json:"qty"`
	Price           decimal.Decimal `json:"price"`
	FormattedPrice  string          `json:"formatted_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Text            string          `json:"text"`
}

// OfferLines lists the quantity offers applicable to the current group,
// ordered by ascending threshold. Tiers priced at or above the product's
// special price are omitted, as are all offers for products without a
// positive base price (the discount percentage is undefined there).
func (s *Scope) OfferLines(ctx context.Context, product *catalog.Product) ([]OfferLine, error) {
	if err := s.pricer.validate(); err != nil {
		return nil, err
	}
	if product.Price.Sign() <= 0 {
		return nil, nil
	}
	group, err := s.CurrentGroup(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.tiersFor(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	// One tier per distinct threshold above a single unit, first encountered
	// wins, ascending.
	seen := make(map[int]Tier)
	qtys := make([]int, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Qty <= 1 || !tier.AppliesToGroup(group) {
			continue
		}
		if _, ok := seen[tier.Qty]; ok {
			continue
		}
		seen[tier.Qty] = tier
		qtys = append(qtys, tier.Qty)
	}
	sort.Ints(qtys)

	lines := make([]OfferLine, 0, len(qtys))
	for _, qty := range qtys {
		tier := seen[qty]
		if product.SpecialPrice != nil && tier.Value.GreaterThanOrEqual(*product.SpecialPrice) {
			continue
		}
		price := ResolveTierPrice(product.Price, tiers, qty, group)
		discount := product.Price.Sub(price).Mul(hundred).Div(product.Price).Round(2)
		formatted := s.format(price)
		lines = append(lines, OfferLine{
			Qty:             qty,
			Price:           price,
			FormattedPrice:  formatted,
			DiscountPercent: discount,
			Text:            fmt.Sprintf("Buy %d for %s each and save %s%%", qty, formatted, discount.StringFixed(2)),
		})
	}
	obs.ObserveOfferLinesBuilt()
	return lines, nil
}

func (s *Scope) format(price decimal.Decimal) string {
	if s.pricer.Currency == nil {
		return price.StringFixed(2)
	}
	return s.pricer.Currency.Format(price)
}
