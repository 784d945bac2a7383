package domain

// ProductCategory groups products on the menu.
type ProductCategory string

const (
	CategoryBurger  ProductCategory = "burger"
	CategorySide    ProductCategory = "side"
	CategoryDrink   ProductCategory = "drink"
	CategoryDessert ProductCategory = "dessert"
)

// ParseProductCategory validates a raw category string.
func ParseProductCategory(value string) (ProductCategory, error) {
	switch c := ProductCategory(value); c {
	case CategoryBurger, CategorySide, CategoryDrink, CategoryDessert:
		return c, nil
	default:
		return "", validationErrorf("invalid product category: %q", value)
	}
}

// ReceiptItem pairs an ingredient with a quantity, both for a product's
// default composition and for a computed order item receipt.
type ReceiptItem struct {
	Ingredient *Ingredient
	Quantity   int
}

// Product is a catalog-sourced read model with its default ingredients.
type Product struct {
	InternalID         int64
	Name               Name
	Price              Money
	Category           ProductCategory
	SKU                SKU
	DefaultIngredients []ReceiptItem
	IsActive           bool
}

// NewProduct validates and constructs a Product.
func NewProduct(internalID int64, name Name, price Money, category ProductCategory, sku SKU, defaults []ReceiptItem, isActive bool) (*Product, error) {
	p := &Product{
		InternalID:         internalID,
		Name:               name,
		Price:              price,
		Category:           category,
		SKU:                sku,
		DefaultIngredients: defaults,
		IsActive:           isActive,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the category and that every default ingredient applies to it.
func (p *Product) Validate() error {
	if p.Name.String() == "" {
		return validationErrorf("product must have a name")
	}
	if p.SKU.String() == "" {
		return validationErrorf("product must have a SKU")
	}
	if _, err := ParseProductCategory(string(p.Category)); err != nil {
		return err
	}
	if len(p.DefaultIngredients) == 0 {
		return validationErrorf("product %s must have at least one default ingredient", p.Name)
	}
	for _, item := range p.DefaultIngredients {
		if item.Ingredient == nil {
			return validationErrorf("product %s has a default entry without an ingredient", p.Name)
		}
		if !item.Ingredient.AppliesTo(p.Category) {
			return validationErrorf("ingredient %s does not apply to %s", item.Ingredient.Name, p.Category)
		}
	}
	return nil
}
