package recipe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/repository"
)

// Repository defines the persistence interface required by the catalog.
type Repository interface {
	repository.Recipe
}

// IngredientLister resolves the ingredient collection for line validation
// and cost roll-ups. The catalog never mutates ingredients.
type IngredientLister interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
}

// AddParams are the fields accepted when creating a recipe.
type AddParams struct {
	ProductID   string
	Name        string
	Ingredients []domain.RecipeLine
}

// UpdateParams carries a field-level merge: nil leaves the stored value
// untouched. A non-nil empty Ingredients slice is rejected.
type UpdateParams struct {
	ProductID   *string
	Name        *string
	Ingredients []domain.RecipeLine
}

// Service defines the interface for recipe catalog operations. The catalog
// enforces the one-recipe-per-product invariant on every write.
type Service interface {
	List(ctx context.Context) ([]domain.Recipe, error)
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error)
	Add(ctx context.Context, params AddParams) (*domain.Recipe, error)
	Update(ctx context.Context, id string, params UpdateParams) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error
	CalculateCost(ctx context.Context, recipeID string) (*domain.RecipeCost, error)
	ProductCost(ctx context.Context, productID string) (*domain.RecipeCost, error)
	ProductProfit(ctx context.Context, productID string) (*domain.ProductProfit, error)
}

type service struct {
	mu          sync.Mutex
	repo        Repository
	ingredients IngredientLister
	products    domain.ProductLookup
}

// NewService creates a new recipe catalog service.
func NewService(repo Repository, ingredients IngredientLister, products domain.ProductLookup) Service {
	return &service{repo: repo, ingredients: ingredients, products: products}
}

func (s *service) List(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetByID returns nil without an error when the recipe does not exist.
func (s *service) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i], nil
		}
	}
	return nil, nil
}

// GetByProductID returns nil without an error when the product has no recipe.
func (s *service) GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	for i := range recipes {
		if recipes[i].ProductID == productID {
			return &recipes[i], nil
		}
	}
	return nil, nil
}

func (s *service) Add(ctx context.Context, params AddParams) (*domain.Recipe, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(params.Name)
	if params.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(params.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: a recipe needs at least one ingredient", domain.ErrInvalidInput)
	}

	product, err := s.products.GetProductByID(ctx, params.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, params.ProductID)
	}

	if err := s.validateLines(ctx, params.Ingredients); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	for _, rec := range recipes {
		if rec.ProductID == params.ProductID {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateRecipe, product.Name)
		}
	}

	recipe := domain.Recipe{
		ID:          uuid.NewString(),
		ProductID:   params.ProductID,
		Name:        name,
		Ingredients: append([]domain.RecipeLine(nil), params.Ingredients...),
		CreatedAt:   time.Now().UTC(),
	}

	recipes = append(recipes, recipe)
	if err := s.repo.ReplaceAll(ctx, recipes); err != nil {
		return nil, fmt.Errorf("failed to save recipes: %w", err)
	}

	log.Info("Recipe added", "id", recipe.ID, "product", recipe.ProductID, "lines", len(recipe.Ingredients))
	return &recipe, nil
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*domain.Recipe, error) {
	log := logger.FromContext(ctx)

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", domain.ErrInvalidInput)
	}
	if params.Ingredients != nil {
		if len(params.Ingredients) == 0 {
			return nil, fmt.Errorf("%w: a recipe needs at least one ingredient", domain.ErrInvalidInput)
		}
		if err := s.validateLines(ctx, params.Ingredients); err != nil {
			return nil, err
		}
	}

	if params.ProductID != nil {
		product, err := s.products.GetProductByID(ctx, *params.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up product: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, *params.ProductID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	index := -1
	for i := range recipes {
		if recipes[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}

	if params.ProductID != nil {
		// Reassignment keeps the one-recipe-per-product invariant: the
		// target product must not already be covered by another recipe.
		for _, rec := range recipes {
			if rec.ID != id && rec.ProductID == *params.ProductID {
				return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateRecipe, *params.ProductID)
			}
		}
		recipes[index].ProductID = *params.ProductID
	}
	if params.Name != nil {
		recipes[index].Name = strings.TrimSpace(*params.Name)
	}
	if params.Ingredients != nil {
		recipes[index].Ingredients = append([]domain.RecipeLine(nil), params.Ingredients...)
	}
	recipes[index].UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceAll(ctx, recipes); err != nil {
		return nil, fmt.Errorf("failed to save recipes: %w", err)
	}

	log.Info("Recipe updated", "id", id)
	updated := recipes[index]
	return &updated, nil
}

// Delete removes a recipe unconditionally. Historical orders store resolved
// line items, not recipe references, so no referential check is needed.
func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}

	index := -1
	for i := range recipes {
		if recipes[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}

	recipes = append(recipes[:index], recipes[index+1:]...)
	if err := s.repo.ReplaceAll(ctx, recipes); err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}

	log.Info("Recipe deleted", "id", id)
	return nil
}

func (s *service) validateLines(ctx context.Context, lines []domain.RecipeLine) error {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ingredients: %w", err)
	}
	byID := make(map[string]domain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	for _, line := range lines {
		if line.IngredientID == "" {
			return fmt.Errorf("%w: ingredient id is required on every line", domain.ErrInvalidInput)
		}
		ing, ok := byID[line.IngredientID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, line.IngredientID)
		}
		if !line.Quantity.IsPositive() {
			return fmt.Errorf("%w: quantity of %q must be greater than zero", domain.ErrInvalidInput, ing.Name)
		}
	}
	return nil
}
