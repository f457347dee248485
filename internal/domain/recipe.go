package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeLine is a single material requirement of a recipe: how much of one
// ingredient goes into one unit of the product.
type RecipeLine struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// Recipe is the bill of materials linking one product to its ingredient
// consumption. At most one recipe exists per product.
type Recipe struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"product_id"`
	Name        string       `json:"name"`
	Ingredients []RecipeLine `json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

// UsesIngredient reports whether any line of the recipe references the
// given ingredient.
func (r Recipe) UsesIngredient(ingredientID string) bool {
	for _, line := range r.Ingredients {
		if line.IngredientID == ingredientID {
			return true
		}
	}
	return false
}

// CostLine is the cost contribution of one recipe line.
type CostLine struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// RecipeCost is the rolled-up cost of a recipe with per-line detail.
type RecipeCost struct {
	Cost    decimal.Decimal `json:"cost"`
	Details []CostLine      `json:"details"`
}

// ProductProfit is the price/cost/profit breakdown for one product.
// Margin is profit as a percentage of price, rounded to two decimals.
type ProductProfit struct {
	Price  decimal.Decimal `json:"price"`
	Cost   decimal.Decimal `json:"cost"`
	Profit decimal.Decimal `json:"profit"`
	Margin decimal.Decimal `json:"margin"`
}
