package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Ping probes a single dependency within the supplied context.
type Ping func(ctx context.Context) error

// Check is a named dependency probe.
type Check struct {
	Name string
	Ping Ping
}

// Handler exposes liveness and readiness endpoints over a fixed set of
// dependency checks.
type Handler struct {
	Checks  []Check
	Timeout time.Duration
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready probes every registered check. Any failing check degrades the
// overall status and the endpoint answers 503.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if len(h.Checks) == 0 {
		http.Error(w, "no dependency checks registered", http.StatusServiceUnavailable)
		return
	}

	body := readiness{Status: "ok", Checks: make(map[string]string, len(h.Checks))}
	for _, check := range h.Checks {
		if check.Ping == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout())
		err := check.Ping(ctx)
		cancel()
		if err != nil {
			body.Status = "degraded"
			body.Checks[check.Name] = err.Error()
			continue
		}
		body.Checks[check.Name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if body.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (h Handler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.Timeout
}
