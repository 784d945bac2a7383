package domain

// OrderItem is one line of an order: a product snapshot plus ingredient
// customizations and the derived receipt and price. Receipt and price are
// computed once at construction and frozen afterwards.
type OrderItem struct {
	InternalID            int64
	Product               *Product
	AdditionalIngredients []*Ingredient
	RemoveIngredients     []*Ingredient
	Receipt               []ReceiptItem
	Price                 Money
}

// NewOrderItem builds an item and computes its receipt and price.
func NewOrderItem(product *Product, additional, remove []*Ingredient) (*OrderItem, error) {
	if product == nil {
		return nil, validationErrorf("order item must have a product")
	}
	item := &OrderItem{
		Product:               product,
		AdditionalIngredients: additional,
		RemoveIngredients:     remove,
	}
	item.generateReceipt()
	item.calculatePrice()
	return item, nil
}

// RehydrateOrderItem restores a persisted item. Stored receipt and price are
// kept as-is; either is recomputed only when it was never set.
func RehydrateOrderItem(internalID int64, product *Product, additional, remove []*Ingredient, receipt []ReceiptItem, price Money) (*OrderItem, error) {
	if product == nil {
		return nil, validationErrorf("order item must have a product")
	}
	item := &OrderItem{
		InternalID:            internalID,
		Product:               product,
		AdditionalIngredients: additional,
		RemoveIngredients:     remove,
		Receipt:               receipt,
		Price:                 price,
	}
	item.generateReceipt()
	item.calculatePrice()
	return item, nil
}

// generateReceipt expands the product's default ingredients into a flat
// multiset, drops every occurrence of an ingredient marked for removal,
// appends the additional ingredients and groups the result by ingredient.
// A non-empty receipt is never recomputed.
func (i *OrderItem) generateReceipt() {
	if len(i.Receipt) > 0 {
		return
	}

	var flattened []*Ingredient
	for _, item := range i.Product.DefaultIngredients {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		for n := 0; n < qty; n++ {
			flattened = append(flattened, item.Ingredient)
		}
	}

	removed := make(map[any]bool, len(i.RemoveIngredients))
	for _, ing := range i.RemoveIngredients {
		removed[ingredientKey(ing)] = true
	}

	var full []*Ingredient
	for _, ing := range flattened {
		if !removed[ingredientKey(ing)] {
			full = append(full, ing)
		}
	}
	full = append(full, i.AdditionalIngredients...)

	index := make(map[any]int, len(full))
	for _, ing := range full {
		key := ingredientKey(ing)
		if pos, ok := index[key]; ok {
			i.Receipt[pos].Quantity++
			continue
		}
		index[key] = len(i.Receipt)
		i.Receipt = append(i.Receipt, ReceiptItem{Ingredient: ing, Quantity: 1})
	}
}

// calculatePrice sums the product price and every additional ingredient.
// Removed ingredients grant no discount. A non-zero price is never recomputed.
func (i *OrderItem) calculatePrice() {
	if !i.Price.Zero() {
		return
	}
	total := i.Product.Price
	for _, ing := range i.AdditionalIngredients {
		total = total.Add(ing.Price)
	}
	i.Price = total
}

// ingredientKey groups by catalog identifier, falling back to object identity
// for ingredients that never got one.
func ingredientKey(ing *Ingredient) any {
	if ing.InternalID != 0 {
		return ing.InternalID
	}
	return ing
}
