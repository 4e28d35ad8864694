package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/obs"
)

// IndexEntry is the precomputed min/max price summary for one product and
// customer group, built by the external indexing job. Absence of an entry is
// a normal condition resolved by falling back to the product's base price.
type IndexEntry struct {
	ProductID       uuid.UUID
	GroupID         uuid.UUID
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	RegularMinPrice decimal.Decimal
	RegularMaxPrice decimal.Decimal
}

type indexKey struct {
	product uuid.UUID
	group   uuid.UUID
}

// IndexCache memoizes price index lookups for the lifetime of one resolution
// scope. It must not be shared across scopes: index rows change between
// requests, and serving a stale row would leak another group's pricing.
type IndexCache struct {
	store   IndexStore
	entries map[indexKey]*IndexEntry
}

// NewIndexCache constructs a cache over the given store.
func NewIndexCache(store IndexStore) *IndexCache {
	return &IndexCache{store: store, entries: make(map[indexKey]*IndexEntry)}
}

// Get returns the index entry for the product and group, or ok=false when the
// index holds no row for that pair. Both outcomes are memoized.
func (c *IndexCache) Get(ctx context.Context, productID, groupID uuid.UUID) (*IndexEntry, bool, error) {
	if c == nil || c.store == nil {
		return nil, false, nil
	}
	key := indexKey{product: productID, group: groupID}
	if entry, ok := c.entries[key]; ok {
		obs.ObservePriceIndexLookup("hit")
		return entry, entry != nil, nil
	}

	obs.ObservePriceIndexLookup("miss")
	rows, err := c.store.EntriesForProduct(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("load price index for %s: %w", productID, err)
	}
	for i := range rows {
		if rows[i].GroupID == groupID {
			entry := rows[i]
			c.entries[key] = &entry
			return &entry, true, nil
		}
	}
	c.entries[key] = nil
	obs.ObservePriceIndexLookup("absent")
	return nil, false, nil
}

// Invalidate clears the memoized entries. Called at scope boundaries by the
// owning request lifecycle.
func (c *IndexCache) Invalidate() {
	if c == nil {
		return
	}
	c.entries = make(map[indexKey]*IndexEntry)
}
