package repository

import (
	"context"
	"fmt"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/storage"
)

// KVIngredient implements Ingredient over a storage.Store.
type KVIngredient struct {
	store storage.Store
}

// NewKVIngredient creates an ingredient repository backed by store.
func NewKVIngredient(store storage.Store) *KVIngredient {
	return &KVIngredient{store: store}
}

func (r *KVIngredient) List(ctx context.Context) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	found, err := r.store.Load(ctx, storage.KeyIngredients, &ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	if !found {
		return []domain.Ingredient{}, nil
	}
	return ingredients, nil
}

func (r *KVIngredient) ReplaceAll(ctx context.Context, ingredients []domain.Ingredient) error {
	if err := r.store.Save(ctx, storage.KeyIngredients, ingredients); err != nil {
		return fmt.Errorf("failed to save ingredients: %w", err)
	}
	return nil
}

// KVRecipe implements Recipe over a storage.Store.
type KVRecipe struct {
	store storage.Store
}

// NewKVRecipe creates a recipe repository backed by store.
func NewKVRecipe(store storage.Store) *KVRecipe {
	return &KVRecipe{store: store}
}

func (r *KVRecipe) List(ctx context.Context) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	found, err := r.store.Load(ctx, storage.KeyRecipes, &recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if !found {
		return []domain.Recipe{}, nil
	}
	return recipes, nil
}

func (r *KVRecipe) ReplaceAll(ctx context.Context, recipes []domain.Recipe) error {
	if err := r.store.Save(ctx, storage.KeyRecipes, recipes); err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	return nil
}

// KVProduct implements Product over a storage.Store.
type KVProduct struct {
	store storage.Store
}

// NewKVProduct creates a product repository backed by store.
func NewKVProduct(store storage.Store) *KVProduct {
	return &KVProduct{store: store}
}

func (r *KVProduct) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	found, err := r.store.Load(ctx, storage.KeyProducts, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if !found {
		return []domain.Product{}, nil
	}
	return products, nil
}

func (r *KVProduct) ReplaceAll(ctx context.Context, products []domain.Product) error {
	if err := r.store.Save(ctx, storage.KeyProducts, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}
