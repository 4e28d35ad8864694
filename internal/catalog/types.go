package catalog

// Type describes the behavioural capabilities of a product kind. Each kind is
// a value implementing this set rather than a hierarchy with mutable flags.
type Type interface {
	Kind() Kind

	// Composite products are assembled from child line items; their
	// saleability depends on the children.
	IsComposite() bool
	// HasVariants reports whether the kind selects a concrete child variant
	// at add-to-cart time.
	HasVariants() bool
	// Stockable kinds carry their own inventory.
	IsStockable() bool
	// ChildrenCalculated kinds derive their price from child products.
	IsChildrenCalculated() bool

	ShowQuantityBox() bool
	AllowsMultipleQty() bool
	CanBeCopied() bool
	CanBeMovedFromWishlistToCart() bool

	// PriceRuleApplies reports whether catalog price rules target this kind.
	PriceRuleApplies() bool
}

type typeFlags struct {
	kind               Kind
	composite          bool
	variants           bool
	stockable          bool
	childrenCalculated bool
	quantityBox        bool
	multipleQty        bool
	copyable           bool
	wishlistMovable    bool
	priceRule          bool
}

func (t typeFlags) Kind() Kind                         { return t.kind }
func (t typeFlags) IsComposite() bool                  { return t.composite }
func (t typeFlags) HasVariants() bool                  { return t.variants }
func (t typeFlags) IsStockable() bool                  { return t.stockable }
func (t typeFlags) IsChildrenCalculated() bool         { return t.childrenCalculated }
func (t typeFlags) ShowQuantityBox() bool              { return t.quantityBox }
func (t typeFlags) AllowsMultipleQty() bool            { return t.multipleQty }
func (t typeFlags) CanBeCopied() bool                  { return t.copyable }
func (t typeFlags) CanBeMovedFromWishlistToCart() bool { return t.wishlistMovable }
func (t typeFlags) PriceRuleApplies() bool             { return t.priceRule }

var kinds = map[Kind]typeFlags{
	KindSimple: {
		kind:            KindSimple,
		stockable:       true,
		quantityBox:     true,
		multipleQty:     true,
		copyable:        true,
		wishlistMovable: true,
		priceRule:       true,
	},
	KindConfigurable: {
		kind:            KindConfigurable,
		composite:       true,
		variants:        true,
		quantityBox:     true,
		multipleQty:     true,
		copyable:        true,
		wishlistMovable: false,
		priceRule:       false,
	},
	KindBundle: {
		kind:               KindBundle,
		composite:          true,
		childrenCalculated: true,
		quantityBox:        true,
		multipleQty:        true,
		copyable:           true,
		wishlistMovable:    true,
		priceRule:          true,
	},
	KindGrouped: {
		kind:               KindGrouped,
		composite:          true,
		childrenCalculated: true,
		multipleQty:        true,
		copyable:           true,
		wishlistMovable:    true,
		priceRule:          false,
	},
}

// TypeOf resolves the capability set for a kind, defaulting to simple for
// unknown values so a malformed row never aborts a pricing pass.
func TypeOf(kind Kind) Type {
	if t, ok := kinds[kind]; ok {
		return t
	}
	return kinds[KindSimple]
}
