package ratelimit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shibinphilip789/bagisto/internal/ratelimit"
)

func newLimitedHandler(t *testing.T, client *redis.Client, maxRequests int) http.Handler {
	t.Helper()
	limit := ratelimit.Middleware(
		ratelimit.Limiter{Client: client, Prefix: "ratelimit:"},
		ratelimit.Config{
			KeyFunc: func(*http.Request) string { return "static" },
			Window:  time.Second,
			Max:     maxRequests,
			Logger:  zerolog.Nop(),
		},
	)
	return limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddlewareEnforcesLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := newLimitedHandler(t, client, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/test", nil)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req.Clone(req.Context()))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req.Clone(req.Context()))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, second.Header().Get("Retry-After"))

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.Equal(t, "RATE_LIMITED", body.Error.Code)
}

func TestMiddlewareFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	handler := newLimitedHandler(t, client, 1)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareDisabledWithoutMax(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := newLimitedHandler(t, client, 0)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
