package ingredient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/repository"
)

// Repository defines the persistence interface required by the ledger.
type Repository interface {
	repository.Ingredient
}

// RecipeLister is the slice of the recipe catalog the ledger needs: the
// delete guard has to know whether any recipe still references an ingredient.
type RecipeLister interface {
	List(ctx context.Context) ([]domain.Recipe, error)
}

// AddParams are the fields accepted when creating an ingredient. Zero-valued
// decimals are valid defaults (empty stock, no threshold, no cost).
type AddParams struct {
	Name        string
	Unit        string
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	CostPerUnit decimal.Decimal
}

// UpdateParams carries a field-level merge: nil pointers leave the stored
// value untouched.
type UpdateParams struct {
	Name        *string
	Unit        *string
	Stock       *decimal.Decimal
	MinStock    *decimal.Decimal
	CostPerUnit *decimal.Decimal
}

// DeductResult reports the outcome of a successful stock deduction.
type DeductResult struct {
	NewStock decimal.Decimal `json:"new_stock"`
	Warning  string          `json:"warning,omitempty"`
}

// Service defines the interface for ingredient ledger operations.
// The ledger is the only component allowed to mutate stock.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id string) (*domain.Ingredient, error)
	Add(ctx context.Context, params AddParams) (*domain.Ingredient, error)
	Update(ctx context.Context, id string, params UpdateParams) (*domain.Ingredient, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (bool, error)
	Deduct(ctx context.Context, id string, quantity decimal.Decimal) (*DeductResult, error)
	AddStock(ctx context.Context, id string, quantity decimal.Decimal) (decimal.Decimal, error)
	CheckLowStock(ctx context.Context) ([]domain.LowStockItem, error)
	CheckAvailability(ctx context.Context, requests []domain.StockRequest) (*domain.AvailabilityReport, error)
}

type service struct {
	// Persistence is a whole-collection read-modify-write, so concurrent
	// callers must be serialized or writes would clobber each other.
	mu      sync.Mutex
	repo    Repository
	recipes RecipeLister
}

// NewService creates a new ingredient ledger service.
func NewService(repo Repository, recipes RecipeLister) Service {
	return &service{repo: repo, recipes: recipes}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]domain.Ingredient, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if !activeOnly {
		return ingredients, nil
	}

	active := make([]domain.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.Active {
			active = append(active, ing)
		}
	}
	return active, nil
}

// GetByID returns nil without an error when the ingredient does not exist.
func (s *service) GetByID(ctx context.Context, id string) (*domain.Ingredient, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	for i := range ingredients {
		if ingredients[i].ID == id {
			return &ingredients[i], nil
		}
	}
	return nil, nil
}

func (s *service) Add(ctx context.Context, params AddParams) (*domain.Ingredient, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(params.Name)
	unit := strings.TrimSpace(params.Unit)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if unit == "" {
		return nil, fmt.Errorf("%w: unit is required", domain.ErrInvalidInput)
	}
	if params.Stock.IsNegative() || params.MinStock.IsNegative() || params.CostPerUnit.IsNegative() {
		return nil, fmt.Errorf("%w: stock, min stock and cost per unit must not be negative", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	for _, ing := range ingredients {
		if strings.EqualFold(ing.Name, name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
		}
	}

	ingredient := domain.Ingredient{
		ID:          uuid.NewString(),
		Name:        name,
		Unit:        unit,
		Stock:       params.Stock,
		MinStock:    params.MinStock,
		CostPerUnit: params.CostPerUnit,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	ingredients = append(ingredients, ingredient)
	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return nil, fmt.Errorf("failed to save ingredients: %w", err)
	}

	log.Info("Ingredient added", "id", ingredient.ID, "name", ingredient.Name, "stock", ingredient.Stock)
	return &ingredient, nil
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*domain.Ingredient, error) {
	log := logger.FromContext(ctx)

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", domain.ErrInvalidInput)
	}
	if params.Unit != nil && strings.TrimSpace(*params.Unit) == "" {
		return nil, fmt.Errorf("%w: unit must not be blank", domain.ErrInvalidInput)
	}
	for _, d := range []*decimal.Decimal{params.Stock, params.MinStock, params.CostPerUnit} {
		if d != nil && d.IsNegative() {
			return nil, fmt.Errorf("%w: stock, min stock and cost per unit must not be negative", domain.ErrInvalidInput)
		}
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

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		for _, ing := range ingredients {
			if ing.ID != id && strings.EqualFold(ing.Name, name) {
				return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
			}
		}
		ingredients[index].Name = name
	}
	if params.Unit != nil {
		ingredients[index].Unit = strings.TrimSpace(*params.Unit)
	}
	if params.Stock != nil {
		ingredients[index].Stock = *params.Stock
	}
	if params.MinStock != nil {
		ingredients[index].MinStock = *params.MinStock
	}
	if params.CostPerUnit != nil {
		ingredients[index].CostPerUnit = *params.CostPerUnit
	}
	ingredients[index].UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return nil, fmt.Errorf("failed to save ingredients: %w", err)
	}

	log.Info("Ingredient updated", "id", id)
	updated := ingredients[index]
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ingredients: %w", err)
	}

	index := indexByID(ingredients, id)
	if index == -1 {
		return fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, id)
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}
	for _, rec := range recipes {
		if rec.UsesIngredient(id) {
			return fmt.Errorf("%w: %q is referenced by recipe %q", domain.ErrIngredientInUse, ingredients[index].Name, rec.Name)
		}
	}

	ingredients = append(ingredients[:index], ingredients[index+1:]...)
	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return fmt.Errorf("failed to save ingredients: %w", err)
	}

	log.Info("Ingredient deleted", "id", id)
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list ingredients: %w", err)
	}

	index := indexByID(ingredients, id)
	if index == -1 {
		return false, fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, id)
	}

	ingredients[index].Active = !ingredients[index].Active
	ingredients[index].UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceAll(ctx, ingredients); err != nil {
		return false, fmt.Errorf("failed to save ingredients: %w", err)
	}

	log.Info("Ingredient toggled", "id", id, "active", ingredients[index].Active)
	return ingredients[index].Active, nil
}

func indexByID(ingredients []domain.Ingredient, id string) int {
	for i := range ingredients {
		if ingredients[i].ID == id {
			return i
		}
	}
	return -1
}
