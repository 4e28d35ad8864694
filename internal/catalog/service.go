package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibinphilip789/bagisto/internal/common"
)

// ErrNotFound indicates the requested product could not be located.
var ErrNotFound = errors.New("product not found")

type productProvider interface {
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ChildrenOf(ctx context.Context, id uuid.UUID) ([]*Product, error)
}

// Service loads products and assembles public catalog DTOs.
type Service struct {
	products productProvider
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Products productProvider
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Products == nil {
		return nil, errors.New("catalog: product store is required")
	}
	return &Service{products: cfg.Products}, nil
}

// ProductDetail is the public product payload.
type ProductDetail struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Kind         string           `json:"kind"`
	Active       bool             `json:"active"`
	Price        decimal.Decimal  `json:"price"`
	SpecialPrice *decimal.Decimal `json:"specialPrice,omitempty"`
	IsComposite  bool             `json:"isComposite"`
	HasVariants  bool             `json:"hasVariants"`
	IsStockable  bool             `json:"isStockable"`
	ShowQtyBox   bool             `json:"showQuantityBox"`
}

// GetProductDetail loads a product by slug and maps it to the public payload.
func (s *Service) GetProductDetail(ctx context.Context, slug string) (ProductDetail, error) {
	product, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return ProductDetail{}, err
	}
	t := product.Type()
	return ProductDetail{
		ID:           product.ID.String(),
		SKU:          product.SKU,
		Name:         product.Name,
		Slug:         product.Slug,
		Kind:         string(t.Kind()),
		Active:       product.Active(),
		Price:        product.Price,
		SpecialPrice: product.SpecialPrice,
		IsComposite:  t.IsComposite(),
		HasVariants:  t.HasVariants(),
		IsStockable:  t.IsStockable(),
		ShowQtyBox:   t.ShowQuantityBox(),
	}, nil
}

// GetBySlug loads a product by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	if s == nil || s.products == nil {
		return nil, errors.New("catalog service not configured")
	}
	if slug == "" {
		return nil, common.InvalidInput("slug is required", nil)
	}
	product, err := s.products.ProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NotFound("product not found", err)
		}
		return nil, fmt.Errorf("load product %q: %w", slug, err)
	}
	return product, nil
}

// GetByID loads a product by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	if s == nil || s.products == nil {
		return nil, errors.New("catalog service not configured")
	}
	product, err := s.products.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NotFound("product not found", err)
		}
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return product, nil
}

// Children loads the child products of a composite product.
func (s *Service) Children(ctx context.Context, id uuid.UUID) ([]*Product, error) {
	if s == nil || s.products == nil {
		return nil, errors.New("catalog service not configured")
	}
	children, err := s.products.ChildrenOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load children of %s: %w", id, err)
	}
	return children, nil
}
