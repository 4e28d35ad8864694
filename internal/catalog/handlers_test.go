package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shibinphilip789/bagisto/internal/catalog"
)

func newHandlerRouter(t *testing.T, products *fakeProducts) *chi.Mux {
	t.Helper()
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: newCatalogService(t, products)})
	router := chi.NewRouter()
	router.Get("/api/v1/products/{slug}", handler.ProductDetail)
	return router
}

func TestProductDetailEndpoint(t *testing.T) {
	product := &catalog.Product{
		ID:     uuid.New(),
		SKU:    "sku-1",
		Name:   "Test Product",
		Slug:   "test-product",
		Kind:   catalog.KindSimple,
		Status: true,
		Price:  decimal.NewFromInt(42),
	}
	router := newHandlerRouter(t, &fakeProducts{bySlug: map[string]*catalog.Product{product.Slug: product}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/test-product", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data catalog.ProductDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "test-product", body.Data.Slug)
	require.Equal(t, "simple", body.Data.Kind)
	require.True(t, body.Data.IsStockable)
}

func TestProductDetailEndpointNotFound(t *testing.T) {
	router := newHandlerRouter(t, &fakeProducts{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/absent", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}
