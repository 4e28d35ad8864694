package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/shibinphilip789/bagisto/internal/common"
)

// ContextGroupProvider resolves the current customer group from the request
// context, defaulting to the configured guest group.
type ContextGroupProvider struct {
	GuestGroup uuid.UUID
}

// CurrentGroup implements GroupProvider.
func (p ContextGroupProvider) CurrentGroup(ctx context.Context) (uuid.UUID, error) {
	if id, ok := common.CustomerGroup(ctx); ok {
		return id, nil
	}
	return p.GuestGroup, nil
}
