package pricing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/common"
)

// Handler exposes product price endpoints.
type Handler struct {
	catalog *catalog.Service
	pricer  *Pricer
	cache   *catalog.Cache
	logger  zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog *catalog.Service
	Pricer  *Pricer
	Cache   *catalog.Cache
	Logger  zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog, pricer: cfg.Pricer, cache: cfg.Cache, logger: cfg.Logger}
}

type pricePayload struct {
	Prices      PriceSummary `json:"prices"`
	HasDiscount bool         `json:"has_discount"`
	Offers      []OfferLine  `json:"offers"`
}

// ProductPrices handles GET /api/v1/products/{slug}/prices.
func (h *Handler) ProductPrices(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil || h.pricer == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "pricing handler not configured", nil)
		return
	}
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetBySlug(ctx, slug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	scope := h.pricer.NewScope()
	group, err := scope.CurrentGroup(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	key := catalog.PriceKey(product.ID, group)
	var payload pricePayload
	if hit, err := h.cache.GetJSON(ctx, key, &payload); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("price cache read")
	} else if hit {
		common.Data(w, http.StatusOK, payload)
		return
	}

	payload.Prices, err = scope.ProductPrices(ctx, product)
	if err != nil {
		h.writeError(w, err)
		return
	}
	payload.HasDiscount, err = scope.HaveDiscount(ctx, product)
	if err != nil {
		h.writeError(w, err)
		return
	}
	payload.Offers, err = scope.OfferLines(ctx, product)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.cache.SetJSON(ctx, key, payload); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("price cache write")
	}
	common.Data(w, http.StatusOK, payload)
}

// Offers handles GET /api/v1/products/{slug}/offers.
func (h *Handler) Offers(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil || h.pricer == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "pricing handler not configured", nil)
		return
	}
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetBySlug(ctx, slug)
	if err != nil {
		h.writeError(w, err)
		return
	}

	scope := h.pricer.NewScope()
	offers, err := scope.OfferLines(ctx, product)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, offers)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if _, ok := common.AsAppError(err); !ok {
		h.logger.Error().Err(err).Msg("pricing request failed")
	}
	common.Error(w, err)
}
