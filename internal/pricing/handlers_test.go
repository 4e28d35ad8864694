package pricing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shibinphilip789/bagisto/internal/catalog"
	"github.com/shibinphilip789/bagisto/internal/pricing"
)

type fakeProducts struct {
	bySlug map[string]*catalog.Product
}

func (f *fakeProducts) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	if p, ok := f.bySlug[slug]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeProducts) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.bySlug {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeProducts) ChildrenOf(ctx context.Context, id uuid.UUID) ([]*catalog.Product, error) {
	return nil, nil
}

type pricesBody struct {
	Data struct {
		Prices      pricing.PriceSummary `json:"prices"`
		HasDiscount bool                 `json:"has_discount"`
		Offers      []pricing.OfferLine  `json:"offers"`
	} `json:"data"`
}

func newPricesRouter(t *testing.T, product *catalog.Product, tiers *fakeTiers, index *fakeIndex) *chi.Mux {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Products: &fakeProducts{bySlug: map[string]*catalog.Product{product.Slug: product}},
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := pricing.NewHandler(pricing.HandlerConfig{
		Catalog: svc,
		Pricer: &pricing.Pricer{
			Groups:  &fakeGroups{group: uuid.New()},
			Tiers:   tiers,
			Indices: index,
		},
		Cache:  catalog.NewCache(client, time.Minute),
		Logger: zerolog.Nop(),
	})
	router := chi.NewRouter()
	router.Get("/api/v1/products/{slug}/prices", handler.ProductPrices)
	router.Get("/api/v1/products/{slug}/offers", handler.Offers)
	return router
}

func TestProductPricesEndpoint(t *testing.T) {
	product := newTestProduct("100")
	product.Slug = "test-product"
	tiers := &fakeTiers{tiers: map[uuid.UUID][]pricing.Tier{
		product.ID: {{Qty: 3, Value: dec("90"), Kind: pricing.ValueFixed}},
	}}
	router := newPricesRouter(t, product, tiers, &fakeIndex{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test-product/prices", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body pricesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, dec("100").Equal(body.Data.Prices.Regular.Price))
	require.True(t, dec("100").Equal(body.Data.Prices.Final.Price))
	require.False(t, body.Data.HasDiscount)
	require.Len(t, body.Data.Offers, 1)
	require.Equal(t, 3, body.Data.Offers[0].Qty)
}

func TestProductPricesEndpointServesCachedPayload(t *testing.T) {
	product := newTestProduct("100")
	product.Slug = "test-product"
	tiers := &fakeTiers{tiers: map[uuid.UUID][]pricing.Tier{
		product.ID: {{Qty: 3, Value: dec("90"), Kind: pricing.ValueFixed}},
	}}
	router := newPricesRouter(t, product, tiers, &fakeIndex{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test-product/prices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	firstTierCalls := tiers.calls

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test-product/prices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, firstTierCalls, tiers.calls)
}

func TestProductPricesEndpointNotFound(t *testing.T) {
	product := newTestProduct("100")
	product.Slug = "test-product"
	router := newPricesRouter(t, product, &fakeTiers{}, &fakeIndex{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/absent/prices", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOffersEndpoint(t *testing.T) {
	product := newTestProduct("100")
	product.Slug = "test-product"
	tiers := &fakeTiers{tiers: map[uuid.UUID][]pricing.Tier{
		product.ID: {
			{Qty: 3, Value: dec("90"), Kind: pricing.ValueFixed},
			{Qty: 5, Value: dec("80"), Kind: pricing.ValueFixed},
		},
	}}
	router := newPricesRouter(t, product, tiers, &fakeIndex{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test-product/offers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []pricing.OfferLine `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 3, body.Data[0].Qty)
	require.Equal(t, 5, body.Data[1].Qty)
}
