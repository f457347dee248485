package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a stock-tracked raw material consumed by recipes.
// Quantities and money use decimal.Decimal: units like ml and gram are
// fractional and stock boundary checks must be exact.
type Ingredient struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// IsLowStock reports whether the ingredient is at or below its alert threshold.
func (i Ingredient) IsLowStock() bool {
	return i.Stock.Cmp(i.MinStock) <= 0
}

// LowStockItem is an ingredient at or below its threshold, annotated with the
// quantity missing to get back to MinStock.
type LowStockItem struct {
	Ingredient
	Shortage decimal.Decimal `json:"shortage"`
}

// StockRequest is a single (ingredient, quantity) requirement used for
// availability checks.
type StockRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// Shortage describes one unsatisfiable stock requirement.
type Shortage struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit,omitempty"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Deficit      decimal.Decimal `json:"deficit"`
}

// AvailabilityReport is the result of a read-only stock check.
type AvailabilityReport struct {
	CanFulfill bool       `json:"can_fulfill"`
	Shortages  []Shortage `json:"shortages"`
}
