package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/metrics"
)

// Mode selects the deduction policy for an order export.
type Mode string

const (
	// ModeBestEffort deducts each ingredient independently. A failing line
	// does not block or roll back the others. This is the default and
	// matches the historical behavior: consumption tracking must not stop
	// an order from being placed.
	ModeBestEffort Mode = "best_effort"

	// ModeAtomic pre-checks the whole order through the availability
	// checker and deducts nothing unless every requirement is satisfiable.
	ModeAtomic Mode = "atomic"
)

// RecipeResolver is the slice of the recipe catalog the adapter needs.
type RecipeResolver interface {
	GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error)
}

// Ledger is the stock-mutation slice of the ingredient ledger.
type Ledger interface {
	Deduct(ctx context.Context, id string, quantity decimal.Decimal) (*ingredient.DeductResult, error)
	AddStock(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error)
}

// OrderChecker performs the read-only pre-flight used by atomic mode.
type OrderChecker interface {
	CheckOrder(ctx context.Context, items []domain.LineItem) (*domain.AvailabilityReport, error)
}

// ExportResult is the aggregated outcome of an export. Success is false when
// any line failed; in best-effort mode deductions that succeeded before a
// failure are kept (known, documented consistency gap).
type ExportResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings"`
}

// Service translates order line items into ledger deductions via recipes.
// It holds no state of its own.
type Service interface {
	ExportLineItem(ctx context.Context, productID string, quantity int) (*ExportResult, error)
	ExportOrder(ctx context.Context, items []domain.LineItem, mode Mode) (*ExportResult, error)
	RestockOrder(ctx context.Context, items []domain.LineItem) (*ExportResult, error)
}

type service struct {
	recipes RecipeResolver
	ledger  Ledger
	checker OrderChecker
}

// NewService creates a new fulfillment service.
func NewService(recipes RecipeResolver, ledger Ledger, checker OrderChecker) Service {
	return &service{recipes: recipes, ledger: ledger, checker: checker}
}

// ExportLineItem deducts one line item's ingredient consumption. Products
// without a recipe are exempt from stock tracking and succeed trivially.
// Insufficient stock on one ingredient does not stop deductions for the
// remaining ingredients of the same line.
func (s *service) ExportLineItem(ctx context.Context, productID string, quantity int) (*ExportResult, error) {
	log := logger.FromContext(ctx)

	rec, err := s.recipes.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe for product %s: %w", productID, err)
	}
	if rec == nil {
		log.Debug("Product has no recipe, skipping export", "product", productID)
		return &ExportResult{
			Success:  true,
			Message:  "product has no recipe, stock tracking skipped",
			Warnings: []string{},
		}, nil
	}

	if quantity < 1 {
		quantity = 1
	}
	factor := decimal.NewFromInt(int64(quantity))

	warnings := []string{}
	failures := []string{}
	for _, line := range rec.Ingredients {
		required := line.Quantity.Mul(factor)

		result, err := s.ledger.Deduct(ctx, line.IngredientID, required)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrIngredientNotFound) {
				failures = append(failures, err.Error())
				continue
			}
			return nil, fmt.Errorf("failed to deduct ingredient %s: %w", line.IngredientID, err)
		}
		if result.Warning != "" {
			warnings = append(warnings, result.Warning)
		}
	}

	if len(failures) > 0 {
		log.Warn("Export incomplete", "product", productID, "failures", len(failures))
		return &ExportResult{
			Success:  false,
			Message:  "not enough stock: " + strings.Join(failures, "; "),
			Warnings: warnings,
		}, nil
	}

	return &ExportResult{
		Success:  true,
		Message:  "stock exported",
		Warnings: warnings,
	}, nil
}

// ExportOrder exports every line item of an order. In best-effort mode a
// failing item does not block the others and earlier deductions persist.
// Atomic mode refuses the whole order up front when any requirement is
// short; the pre-check and the deductions are not a single transaction, so
// concurrent exports can still interleave between them.
func (s *service) ExportOrder(ctx context.Context, items []domain.LineItem, mode Mode) (*ExportResult, error) {
	log := logger.FromContext(ctx)

	if mode == "" {
		mode = ModeBestEffort
	}

	if len(items) == 0 {
		return &ExportResult{Success: true, Message: "order is empty", Warnings: []string{}}, nil
	}

	if mode == ModeAtomic {
		report, err := s.checker.CheckOrder(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("failed to pre-check order: %w", err)
		}
		if !report.CanFulfill {
			metrics.OrderExportFailures.WithLabelValues(string(mode)).Inc()
			return &ExportResult{
				Success:  false,
				Message:  "not enough stock: " + describeShortages(report.Shortages),
				Warnings: []string{},
			}, nil
		}
	}

	warnings := []string{}
	failures := []string{}
	for _, item := range items {
		result, err := s.ExportLineItem(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !result.Success {
			failures = append(failures, result.Message)
		}
		warnings = append(warnings, result.Warnings...)
	}

	if len(failures) > 0 {
		metrics.OrderExportFailures.WithLabelValues(string(mode)).Inc()
		log.Warn("Order export incomplete", "items", len(items), "failedItems", len(failures))
		return &ExportResult{
			Success:  false,
			Message:  strings.Join(failures, " | "),
			Warnings: warnings,
		}, nil
	}

	metrics.OrdersExported.WithLabelValues(string(mode)).Inc()
	log.Info("Order exported", "items", len(items), "mode", mode)
	return &ExportResult{
		Success:  true,
		Message:  "order exported",
		Warnings: warnings,
	}, nil
}

// RestockOrder returns a cancelled order's consumption to the ledger, the
// inverse of a successful export. Items without a recipe are skipped.
func (s *service) RestockOrder(ctx context.Context, items []domain.LineItem) (*ExportResult, error) {
	log := logger.FromContext(ctx)

	failures := []string{}
	for _, item := range items {
		rec, err := s.recipes.GetByProductID(ctx, item.ProductID)
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
			if _, err := s.ledger.AddStock(ctx, line.IngredientID, line.Quantity.Mul(factor)); err != nil {
				if errors.Is(err, domain.ErrIngredientNotFound) {
					failures = append(failures, err.Error())
					continue
				}
				return nil, fmt.Errorf("failed to restock ingredient %s: %w", line.IngredientID, err)
			}
		}
	}

	if len(failures) > 0 {
		return &ExportResult{
			Success:  false,
			Message:  "restock incomplete: " + strings.Join(failures, "; "),
			Warnings: []string{},
		}, nil
	}

	log.Info("Order restocked", "items", len(items))
	return &ExportResult{Success: true, Message: "order restocked", Warnings: []string{}}, nil
}

func describeShortages(shortages []domain.Shortage) string {
	parts := make([]string, 0, len(shortages))
	for _, sh := range shortages {
		parts = append(parts, fmt.Sprintf("%s needs %s, only %s available", sh.Name, sh.Required, sh.Available))
	}
	return strings.Join(parts, "; ")
}
