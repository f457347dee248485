package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgIngredientNotFound = "ingredient not found"
	ErrMsgRecipeNotFound     = "recipe not found"
	ErrMsgProductNotFound    = "product not found"
	ErrMsgDuplicateName      = "ingredient name already exists"
	ErrMsgDuplicateRecipe    = "product already has a recipe"
	ErrMsgIngredientInUse    = "ingredient is used by a recipe"
	ErrMsgInsufficientStock  = "insufficient stock"
	ErrMsgInvalidInput       = "invalid input"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	ErrIngredientNotFound = errors.New(ErrMsgIngredientNotFound)
	ErrRecipeNotFound     = errors.New(ErrMsgRecipeNotFound)
	ErrProductNotFound    = errors.New(ErrMsgProductNotFound)
	ErrDuplicateName      = errors.New(ErrMsgDuplicateName)
	ErrDuplicateRecipe    = errors.New(ErrMsgDuplicateRecipe)
	ErrIngredientInUse    = errors.New(ErrMsgIngredientInUse)
	ErrInsufficientStock  = errors.New(ErrMsgInsufficientStock)
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)
)

// InsufficientStockError reports a rejected deduction with enough detail for
// an operator to act on. It unwraps to ErrInsufficientStock.
type InsufficientStockError struct {
	IngredientID string
	Name         string
	Unit         string
	Requested    decimal.Decimal
	Available    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: only %s %s of %s left, need %s",
		ErrMsgInsufficientStock, e.Available, e.Unit, e.Name, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
