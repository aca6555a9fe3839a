package models

import (
	"encoding/json"
	"strings"
	"time"
)

// FoodCategory is the closed set of categories an item can belong to
type FoodCategory string

const (
	CategoryFruitsVeggies FoodCategory = "FRUITS_VEGGIES"
	CategoryDairy         FoodCategory = "DAIRY"
	CategoryMeatFish      FoodCategory = "MEAT_FISH"
	CategoryPantry        FoodCategory = "PANTRY"
	CategoryBeverages     FoodCategory = "BEVERAGES"
	CategoryFrozen        FoodCategory = "FROZEN"
	CategoryOther         FoodCategory = "OTHER"
)

// Categories lists every valid category in display order
var Categories = []FoodCategory{
	CategoryFruitsVeggies,
	CategoryDairy,
	CategoryMeatFish,
	CategoryPantry,
	CategoryBeverages,
	CategoryFrozen,
	CategoryOther,
}

// ParseCategory maps a raw value onto the enumeration. Anything unknown is OTHER.
func ParseCategory(raw string) FoodCategory {
	c := FoodCategory(strings.ToUpper(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Valid reports whether c is a member of the enumeration
func (c FoodCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON coerces unknown categories so stored or remote data cannot
// smuggle an invalid value into the model.
func (c *FoodCategory) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = CategoryOther
		return nil
	}
	*c = ParseCategory(raw)
	return nil
}

// FoodItem represents one tracked perishable unit or unit group
type FoodItem struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Category        FoodCategory `json:"category"`
	PurchaseDate    time.Time    `json:"purchaseDate"`
	ExpiryDate      time.Time    `json:"expiryDate"`
	Quantity        string       `json:"quantity"`        // display label, e.g. "3 unit"
	CurrentQuantity int          `json:"currentQuantity"` // remaining units, never negative
	IsUsed          bool         `json:"isUsed"`
}

// Recipe is a transient suggestion built from the current inventory
type Recipe struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	Difficulty   string   `json:"difficulty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// User is the profile captured by the login form
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Bounds on the numbers a receipt line may carry. Values outside them are
// treated as absent.
const (
	MaxShelfLifeDays = 3650
	MaxQuantity      = 1000
)

// ReceiptLine is one product detected on a receipt photo, already validated
// at the AI boundary
type ReceiptLine struct {
	Name            string       `json:"name" validate:"required"`
	Category        FoodCategory `json:"category"`
	ShelfLifeDays   int          `json:"shelfLifeDays" validate:"min=0,max=3650"`
	QuantityLabel   string       `json:"quantity"`
	NumericQuantity int          `json:"numericQuantity" validate:"min=0,max=1000"`
}
