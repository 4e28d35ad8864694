package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shibinphilip789/bagisto/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// ProductDetail handles GET /api/v1/products/{slug}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	slug := chi.URLParam(r, "slug")
	detail, err := h.service.GetProductDetail(r.Context(), slug)
	if err != nil {
		common.Error(w, err)
		return
	}
	common.Data(w, http.StatusOK, detail)
}
