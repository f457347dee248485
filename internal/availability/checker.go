package availability

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
)

// RecipeResolver is the slice of the recipe catalog the checker needs.
type RecipeResolver interface {
	GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error)
}

// StockChecker is the read-only slice of the ingredient ledger.
type StockChecker interface {
	CheckAvailability(ctx context.Context, requests []domain.StockRequest) (*domain.AvailabilityReport, error)
}

// Checker answers "can this order be made with current stock" without
// mutating anything. Call it before exporting if partial failures are not
// acceptable; the engine does not enforce that ordering.
type Checker interface {
	CheckOrder(ctx context.Context, items []domain.LineItem) (*domain.AvailabilityReport, error)
}

type checker struct {
	recipes RecipeResolver
	ledger  StockChecker
}

// NewChecker creates a new availability checker.
func NewChecker(recipes RecipeResolver, ledger StockChecker) Checker {
	return &checker{recipes: recipes, ledger: ledger}
}

// CheckOrder aggregates requirements across all line items before checking,
// so two items sharing an ingredient are summed: each alone might fit in
// stock while the order as a whole does not. Products without a recipe are
// untracked and skipped.
func (c *checker) CheckOrder(ctx context.Context, items []domain.LineItem) (*domain.AvailabilityReport, error) {
	if len(items) == 0 {
		return &domain.AvailabilityReport{CanFulfill: true, Shortages: []domain.Shortage{}}, nil
	}

	totals := make(map[string]decimal.Decimal)
	var order []string // first-seen ingredient order, keeps reports stable

	for _, item := range items {
		rec, err := c.recipes.GetByProductID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipe for product %s: %w", item.ProductID, err)
		}
		if rec == nil {
			continue
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		factor := decimal.NewFromInt(int64(quantity))

		for _, line := range rec.Ingredients {
			required := line.Quantity.Mul(factor)
			if _, seen := totals[line.IngredientID]; !seen {
				order = append(order, line.IngredientID)
			}
			totals[line.IngredientID] = totals[line.IngredientID].Add(required)
		}
	}

	requests := make([]domain.StockRequest, 0, len(order))
	for _, id := range order {
		requests = append(requests, domain.StockRequest{IngredientID: id, Quantity: totals[id]})
	}

	return c.ledger.CheckAvailability(ctx, requests)
}
