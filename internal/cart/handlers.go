package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shibinphilip789/bagisto/internal/common"
)

// Handler exposes cart preparation and revalidation endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
	Logger  zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, validate: validator.New(), logger: cfg.Logger}
}

type prepareRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

// PrepareItem handles POST /api/v1/carts/{cartID}/items.
func (h *Handler) PrepareItem(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	ctx := r.Context()

	cartID, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "invalid cart id", nil)
		return
	}

	var req prepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "invalid request body", err.Error())
		return
	}

	product, err := h.service.Catalog.GetBySlug(ctx, req.ProductSlug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	scope := h.service.Pricer.NewScope()
	payload, err := h.service.PrepareForCart(ctx, scope, cartID, product, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, payload)
}

// Revalidate handles POST /api/v1/carts/{cartID}/revalidate.
func (h *Handler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	cartID, err := uuid.Parse(chi.URLParam(r, "cartID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "invalid cart id", nil)
		return
	}

	results, err := h.service.RevalidateCart(r.Context(), cartID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, results)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if _, ok := common.AsAppError(err); ok {
		common.Error(w, err)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "cart not found", nil)
	case errors.Is(err, ErrInsufficientStock):
		common.JSONError(w, http.StatusConflict, common.CodeInsufficientStock, "requested quantity is not available", nil)
	case errors.Is(err, ErrUnavailable):
		common.JSONError(w, http.StatusConflict, common.CodeProductUnavailable, "product cannot be purchased", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Msg("cart request failed")
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "internal server error", nil)
	}
}
