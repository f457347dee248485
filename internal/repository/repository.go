package repository

import (
	"context"

	"github.com/hieudt/brewstock/internal/domain"
)

// The engine persists whole collections as single units (the original design
// is a read-modify-write over one key per collection), so repositories expose
// List/ReplaceAll rather than row-level operations. Services own the
// read-modify-write cycle and its locking.

// Ingredient defines the interface for ingredient persistence.
type Ingredient interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
	ReplaceAll(ctx context.Context, ingredients []domain.Ingredient) error
}

// Recipe defines the interface for recipe persistence.
type Recipe interface {
	List(ctx context.Context) ([]domain.Recipe, error)
	ReplaceAll(ctx context.Context, recipes []domain.Recipe) error
}

// Product defines the interface for product persistence.
type Product interface {
	List(ctx context.Context) ([]domain.Product, error)
	ReplaceAll(ctx context.Context, products []domain.Product) error
}
