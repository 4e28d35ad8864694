package common

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const customerGroupKey ctxKey = "customer_group"

// WithCustomerGroup attaches a resolved customer group id to the context.
func WithCustomerGroup(ctx context.Context, groupID uuid.UUID) context.Context {
	return context.WithValue(ctx, customerGroupKey, groupID)
}

// CustomerGroup extracts the customer group id from the context.
func CustomerGroup(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerGroupKey).(uuid.UUID)
	return id, ok
}

// CustomerGroupHeader is the request header carrying the caller's group id.
const CustomerGroupHeader = "X-Customer-Group"

// CustomerGroupMiddleware copies a valid group id header into the request
// context. Requests without the header fall through to the guest group.
func CustomerGroupMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(CustomerGroupHeader); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(WithCustomerGroup(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
