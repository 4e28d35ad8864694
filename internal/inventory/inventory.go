// Package inventory computes available quantity and the sufficiency predicate
// used by add-to-cart preparation.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shibinphilip789/bagisto/internal/catalog"
)

// SourceQty is the on-hand quantity at one inventory source.
type SourceQty struct {
	SourceID uuid.UUID
	Qty      int
}

// Store loads inventory rows for a product. The active channel decides which
// sources count toward availability.
type Store interface {
	InventoriesForProduct(ctx context.Context, productID uuid.UUID) ([]SourceQty, error)
	OrderedQty(ctx context.Context, productID uuid.UUID) (int, error)
	ChannelSourceIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Checker answers quantity questions for stockable products.
type Checker struct {
	Store Store
	// AllowBackorders lets non-stockable rules pass even at zero quantity.
	AllowBackorders bool
}

// TotalAvailable sums on-hand quantity across the channel's sources and
// subtracts quantity already committed to orders.
func (c *Checker) TotalAvailable(ctx context.Context, product *catalog.Product) (int, error) {
	if c == nil || c.Store == nil {
		return 0, errors.New("inventory checker not configured")
	}
	sources, err := c.Store.ChannelSourceIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load channel sources: %w", err)
	}
	active := make(map[uuid.UUID]bool, len(sources))
	for _, id := range sources {
		active[id] = true
	}

	rows, err := c.Store.InventoriesForProduct(ctx, product.ID)
	if err != nil {
		return 0, fmt.Errorf("load inventories for %s: %w", product.ID, err)
	}
	total := 0
	for _, row := range rows {
		if active[row.SourceID] {
			total += row.Qty
		}
	}

	ordered, err := c.Store.OrderedQty(ctx, product.ID)
	if err != nil {
		return 0, fmt.Errorf("load ordered qty for %s: %w", product.ID, err)
	}
	return total - ordered, nil
}

// HaveSufficientQuantity reports whether qty units of the product can be
// sold. Non-stockable kinds always pass; stockable kinds require available
// inventory unless backorders are allowed.
func (c *Checker) HaveSufficientQuantity(ctx context.Context, product *catalog.Product, qty int) (bool, error) {
	if !product.Type().IsStockable() {
		return true, nil
	}
	if c != nil && c.AllowBackorders {
		return true, nil
	}
	available, err := c.TotalAvailable(ctx, product)
	if err != nil {
		return false, err
	}
	return available >= qty, nil
}
