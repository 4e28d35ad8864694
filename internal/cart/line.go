package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/catalog"
)

// Line is a cart line item with its captured prices. Captured fields must
// match the currently resolved product price; revalidation restores the
// invariant when catalog state has moved underneath the cart.
type Line struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Product   *catalog.Product

	// Child is the selected variant line for configurable-style parents.
	Child *Line
	// Children are the component lines of bundle-style parents.
	Children []*Line

	SKU      string
	Name     string
	Quantity int

	// Captured unit price and total in display currency.
	Price decimal.Decimal
	Total decimal.Decimal
	// Captured unit price and total in base currency.
	BasePrice decimal.Decimal
	BaseTotal decimal.Decimal

	Weight          decimal.Decimal
	TotalWeight     decimal.Decimal
	BaseTotalWeight decimal.Decimal
}

// MatchesProduct reports whether the line holds the same product and parent
// pairing, used to merge a new add-to-cart request into an existing line.
func (l *Line) MatchesProduct(productID uuid.UUID, parentID *uuid.UUID) bool {
	if l == nil || l.ProductID != productID {
		return false
	}
	var lineParent *uuid.UUID
	if l.Product != nil {
		lineParent = l.Product.ParentID
	}
	if lineParent == nil || parentID == nil {
		return lineParent == nil && parentID == nil
	}
	return *lineParent == *parentID
}
