package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shibinphilip789/bagisto/internal/common"
)

// Config describes how requests map onto rate limit keys and thresholds.
type Config struct {
	KeyFunc func(*http.Request) string
	Window  time.Duration
	Max     int
	Logger  zerolog.Logger
}

// Middleware enforces the limiter before delegating. Limiter failures fail
// open: the request proceeds and the error is logged.
func Middleware(limiter Limiter, cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.KeyFunc == nil || cfg.Max <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			key := cfg.KeyFunc(r)
			result, err := limiter.Allow(r.Context(), key, cfg.Window, cfg.Max)
			if err != nil {
				cfg.Logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			headers := w.Header()
			headers.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			headers.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			headers.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(time.Until(result.ResetAt).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				headers.Set("Retry-After", strconv.Itoa(retryAfter))
				common.JSONError(w, http.StatusTooManyRequests, common.CodeRateLimited, "too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
