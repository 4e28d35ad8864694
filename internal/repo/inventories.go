package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shibinphilip789/bagisto/internal/inventory"
)

// InventoriesRepo loads per-source inventory rows.
type InventoriesRepo struct {
	Pool *pgxpool.Pool
}

// InventoriesForProduct returns on-hand quantity per inventory source.
func (r InventoriesRepo) InventoriesForProduct(ctx context.Context, productID uuid.UUID) ([]inventory.SourceQty, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT inventory_source_id, qty
		FROM product_inventories
		WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("query inventories: %w", err)
	}
	defer rows.Close()

	var result []inventory.SourceQty
	for rows.Next() {
		var row inventory.SourceQty
		if err := rows.Scan(&row.SourceID, &row.Qty); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// OrderedQty returns quantity already committed to open orders.
func (r InventoriesRepo) OrderedQty(ctx context.Context, productID uuid.UUID) (int, error) {
	var qty int
	err := r.Pool.QueryRow(ctx, `
		SELECT qty FROM product_ordered_inventories WHERE product_id = $1`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query ordered qty: %w", err)
	}
	return qty, nil
}

// ChannelSourceIDs returns the inventory sources of the active channel.
func (r InventoriesRepo) ChannelSourceIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT inventory_source_id FROM channel_inventory_sources`)
	if err != nil {
		return nil, fmt.Errorf("query channel sources: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan channel source: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
