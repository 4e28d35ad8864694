package catalog

import "github.com/google/uuid"

// SaleablePredicate is an externally supplied check applied on top of the
// product status, e.g. an inventory sufficiency rule.
type SaleablePredicate func(*Product) bool

// SaleableChecks memoizes saleability results per product id for the lifetime
// of one resolution scope. It must not outlive the scope: saleability can
// change between requests.
type SaleableChecks struct {
	loaded map[uuid.UUID]bool
}

// NewSaleableChecks constructs an empty scope-local table.
func NewSaleableChecks() *SaleableChecks {
	return &SaleableChecks{loaded: make(map[uuid.UUID]bool)}
}

// Check runs the predicate for the product, reusing a previously computed
// result within this scope.
func (c *SaleableChecks) Check(p *Product, predicate SaleablePredicate) bool {
	if p == nil {
		return false
	}
	if c == nil || c.loaded == nil {
		return saleable(p, predicate)
	}
	if result, ok := c.loaded[p.ID]; ok {
		return result
	}
	result := saleable(p, predicate)
	c.loaded[p.ID] = result
	return result
}

// Invalidate clears all memoized results. Called at scope boundaries.
func (c *SaleableChecks) Invalidate() {
	if c == nil {
		return
	}
	c.loaded = make(map[uuid.UUID]bool)
}

func saleable(p *Product, predicate SaleablePredicate) bool {
	if !p.Active() {
		return false
	}
	if predicate != nil && !predicate(p) {
		return false
	}
	return true
}
