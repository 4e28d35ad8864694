package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the product type variant.
type Kind string

// Supported product kinds.
const (
	KindSimple       Kind = "simple"
	KindConfigurable Kind = "configurable"
	KindBundle       Kind = "bundle"
	KindGrouped      Kind = "grouped"
)

// Product is a catalog product row with the attributes pricing and cart
// revalidation depend on.
type Product struct {
	ID     uuid.UUID
	SKU    string
	Name   string
	Slug   string
	Kind   Kind
	Status bool

	Price        decimal.Decimal
	SpecialPrice *decimal.Decimal
	Weight       decimal.Decimal

	ParentID      *uuid.UUID
	Parent        *Product
	TaxCategoryID *uuid.UUID
}

// Active reports whether the product is enabled for the storefront.
func (p *Product) Active() bool {
	return p != nil && p.Status
}

// EffectiveTaxCategory returns the product's tax category, falling back to the
// parent's category for variant products.
func (p *Product) EffectiveTaxCategory() *uuid.UUID {
	if p == nil {
		return nil
	}
	if p.Parent != nil {
		return p.Parent.TaxCategoryID
	}
	return p.TaxCategoryID
}

// Type returns the capability set for the product's kind.
func (p *Product) Type() Type {
	if p == nil {
		return TypeOf(KindSimple)
	}
	return TypeOf(p.Kind)
}
