package domain

// IngredientType classifies catalog ingredients.
type IngredientType string

const (
	IngredientBread     IngredientType = "bread"
	IngredientMeat      IngredientType = "meat"
	IngredientCheese    IngredientType = "cheese"
	IngredientVegetable IngredientType = "vegetable"
	IngredientSalad     IngredientType = "salad"
	IngredientSauce     IngredientType = "sauce"
	IngredientIce       IngredientType = "ice"
	IngredientMilk      IngredientType = "milk"
	IngredientTopping   IngredientType = "topping"
)

// ParseIngredientType validates a raw ingredient type string.
func ParseIngredientType(value string) (IngredientType, error) {
	switch t := IngredientType(value); t {
	case IngredientBread, IngredientMeat, IngredientCheese, IngredientVegetable,
		IngredientSalad, IngredientSauce, IngredientIce, IngredientMilk, IngredientTopping:
		return t, nil
	default:
		return "", validationErrorf("invalid ingredient type: %q", value)
	}
}

// Permitted ingredient types per product category.
var (
	burgerTypes  = map[IngredientType]bool{IngredientBread: true, IngredientMeat: true, IngredientCheese: true, IngredientVegetable: true, IngredientSalad: true, IngredientSauce: true}
	sideTypes    = map[IngredientType]bool{IngredientSalad: true, IngredientSauce: true, IngredientVegetable: true}
	drinkTypes   = map[IngredientType]bool{IngredientIce: true, IngredientMilk: true}
	dessertTypes = map[IngredientType]bool{IngredientTopping: true}
)

// Ingredient is a catalog-sourced read model. Snapshots are frozen at order
// creation time and never re-linked to the catalog afterwards.
type Ingredient struct {
	InternalID       int64
	Name             Name
	Price            Money
	IsActive         bool
	Type             IngredientType
	AppliesToBurger  bool
	AppliesToSide    bool
	AppliesToDrink   bool
	AppliesToDessert bool
}

// NewIngredient validates applicability rules and constructs an Ingredient.
func NewIngredient(internalID int64, name Name, price Money, isActive bool, ingredientType IngredientType, burger, side, drink, dessert bool) (*Ingredient, error) {
	ing := &Ingredient{
		InternalID:       internalID,
		Name:             name,
		Price:            price,
		IsActive:         isActive,
		Type:             ingredientType,
		AppliesToBurger:  burger,
		AppliesToSide:    side,
		AppliesToDrink:   drink,
		AppliesToDessert: dessert,
	}
	if err := ing.Validate(); err != nil {
		return nil, err
	}
	return ing, nil
}

// Validate checks that each applies-to flag matches a permitted type.
func (i *Ingredient) Validate() error {
	if i.Name.String() == "" {
		return validationErrorf("ingredient must have a name")
	}
	if _, err := ParseIngredientType(string(i.Type)); err != nil {
		return err
	}
	if !i.AppliesToBurger && !i.AppliesToSide && !i.AppliesToDrink && !i.AppliesToDessert {
		return validationErrorf("ingredient %s must apply to at least one product category", i.Name)
	}
	if i.AppliesToBurger && !burgerTypes[i.Type] {
		return validationErrorf("ingredient %s is not a valid burger ingredient", i.Name)
	}
	if i.AppliesToSide && !sideTypes[i.Type] {
		return validationErrorf("ingredient %s is not a valid side ingredient", i.Name)
	}
	if i.AppliesToDrink && !drinkTypes[i.Type] {
		return validationErrorf("ingredient %s is not a valid drink ingredient", i.Name)
	}
	if i.AppliesToDessert && !dessertTypes[i.Type] {
		return validationErrorf("ingredient %s is not a valid dessert ingredient", i.Name)
	}
	return nil
}

// AppliesTo reports whether the ingredient may be used in the given category.
func (i *Ingredient) AppliesTo(category ProductCategory) bool {
	switch category {
	case CategoryBurger:
		return i.AppliesToBurger
	case CategorySide:
		return i.AppliesToSide
	case CategoryDrink:
		return i.AppliesToDrink
	case CategoryDessert:
		return i.AppliesToDessert
	default:
		return false
	}
}
