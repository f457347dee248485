package recipe

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// CalculateCost rolls up cost = sum(line quantity x cost per unit) with
// per-line detail. A missing recipe yields a zero cost, and lines whose
// ingredient no longer resolves are skipped: the delete guard should make
// that impossible, but a stale reference must not break cost reports.
func (s *service) CalculateCost(ctx context.Context, recipeID string) (*domain.RecipeCost, error) {
	rec, err := s.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &domain.RecipeCost{Cost: decimal.Zero, Details: []domain.CostLine{}}, nil
	}
	return s.costOf(ctx, rec)
}

func (s *service) costOf(ctx context.Context, rec *domain.Recipe) (*domain.RecipeCost, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	byID := make(map[string]domain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	cost := decimal.Zero
	details := []domain.CostLine{}
	for _, line := range rec.Ingredients {
		ing, ok := byID[line.IngredientID]
		if !ok {
			continue
		}
		subtotal := line.Quantity.Mul(ing.CostPerUnit)
		cost = cost.Add(subtotal)
		details = append(details, domain.CostLine{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     line.Quantity,
			Unit:         ing.Unit,
			UnitCost:     ing.CostPerUnit,
			Subtotal:     subtotal,
		})
	}

	return &domain.RecipeCost{Cost: cost, Details: details}, nil
}

// ProductCost resolves the product's recipe and returns its cost. Products
// without a recipe cost zero.
func (s *service) ProductCost(ctx context.Context, productID string) (*domain.RecipeCost, error) {
	rec, err := s.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &domain.RecipeCost{Cost: decimal.Zero, Details: []domain.CostLine{}}, nil
	}
	return s.costOf(ctx, rec)
}

// ProductProfit reports price, recipe cost, profit and margin for a product.
// Margin is profit over price in percent, rounded to two decimals; a free
// product has margin zero. An unknown product reports all zeroes.
func (s *service) ProductProfit(ctx context.Context, productID string) (*domain.ProductProfit, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return &domain.ProductProfit{
			Price:  decimal.Zero,
			Cost:   decimal.Zero,
			Profit: decimal.Zero,
			Margin: decimal.Zero,
		}, nil
	}

	recipeCost, err := s.ProductCost(ctx, productID)
	if err != nil {
		return nil, err
	}

	profit := product.Price.Sub(recipeCost.Cost)
	margin := decimal.Zero
	if product.Price.IsPositive() {
		margin = profit.Div(product.Price).Mul(oneHundred).Round(2)
	}

	return &domain.ProductProfit{
		Price:  product.Price,
		Cost:   recipeCost.Cost,
		Profit: profit,
		Margin: margin,
	}, nil
}
