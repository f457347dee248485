package ingredient

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/metrics"
)

// Deduct removes quantity from an ingredient's stock. The check and the
// decrement happen under the collection lock, so a single call can never
// drive stock negative. When the remaining stock falls to or below the
// threshold the result carries a low-stock warning.
func (s *service) Deduct(ctx context.Context, id string, quantity decimal.Decimal) (*DeductResult, error) {
	log := logger.FromContext(ctx)

	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	index := indexByID(ingredients, id)
	if index == -1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, id)
	}
	ing := ingredients[index]

	if ing.Stock.Cmp(quantity) < 0 {
		metrics.StockDeductionsRejected.WithLabelValues(ing.Name).Inc()
		return nil, &domain.InsufficientStockError{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Unit:         ing.Unit,
			Requested:    quantity,
			Available:    ing.Stock,
		}
	}

	ingredients[index].Stock = ing.Stock.Sub(quantity)
	ingredients[index].UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return nil, fmt.Errorf("failed to save ingredients: %w", err)
	}

	metrics.StockDeductions.WithLabelValues(ing.Name).Inc()

	result := &DeductResult{NewStock: ingredients[index].Stock}
	if ingredients[index].IsLowStock() {
		result.Warning = fmt.Sprintf("%s is running low: %s %s left (threshold %s)",
			ing.Name, ingredients[index].Stock, ing.Unit, ing.MinStock)
		log.Warn("Ingredient below threshold", "id", id, "name", ing.Name, "stock", ingredients[index].Stock)
	}

	log.Info("Stock deducted", "id", id, "name", ing.Name, "quantity", quantity, "newStock", result.NewStock)
	return result, nil
}

// AddStock increases an ingredient's stock, e.g. on goods receipt or when a
// cancelled order returns its export.
func (s *service) AddStock(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list ingredients: %w", err)
	}

	index := indexByID(ingredients, id)
	if index == -1 {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, id)
	}

	ingredients[index].Stock = ingredients[index].Stock.Add(quantity)
	ingredients[index].UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save ingredients: %w", err)
	}

	log.Info("Stock added", "id", id, "quantity", quantity, "newStock", ingredients[index].Stock)
	return ingredients[index].Stock, nil
}

// CheckLowStock reports every active ingredient at or below its threshold,
// recomputed fresh on each call.
func (s *service) CheckLowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	ingredients, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}

	items := []domain.LowStockItem{}
	for _, ing := range ingredients {
		if ing.IsLowStock() {
			items = append(items, domain.LowStockItem{
				Ingredient: ing,
				Shortage:   ing.MinStock.Sub(ing.Stock),
			})
		}
	}

	metrics.LowStockIngredients.Set(float64(len(items)))
	return items, nil
}

// CheckAvailability is a read-only pre-flight over arbitrary requirements.
// A request for an unknown ingredient counts as a total shortfall rather
// than an error, so callers get one consolidated report.
func (s *service) CheckAvailability(ctx context.Context, requests []domain.StockRequest) (*domain.AvailabilityReport, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	byID := make(map[string]domain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	shortages := []domain.Shortage{}
	for _, req := range requests {
		ing, ok := byID[req.IngredientID]
		if !ok {
			shortages = append(shortages, domain.Shortage{
				IngredientID: req.IngredientID,
				Name:         "unknown ingredient",
				Required:     req.Quantity,
				Available:    decimal.Zero,
				Deficit:      req.Quantity,
			})
			continue
		}

		if ing.Stock.Cmp(req.Quantity) < 0 {
			shortages = append(shortages, domain.Shortage{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Required:     req.Quantity,
				Available:    ing.Stock,
				Deficit:      req.Quantity.Sub(ing.Stock),
			})
		}
	}

	return &domain.AvailabilityReport{
		CanFulfill: len(shortages) == 0,
		Shortages:  shortages,
	}, nil
}
