package product

import (
	"context"
	"fmt"
	"sync"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/repository"
)

// Repository defines the persistence interface required by the catalog.
type Repository interface {
	repository.Product
}

// Catalog is the product collaborator the inventory engine consumes. Full
// product management (categories, sizes, toppings, images) lives outside
// this service; the engine only needs identity and price.
type Catalog interface {
	domain.ProductLookup
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) error
}

type catalog struct {
	mu   sync.Mutex
	repo Repository
}

// NewCatalog creates a product catalog over the given repository.
func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (c *catalog) List(ctx context.Context) ([]domain.Product, error) {
	products, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductByID returns nil without an error when the product does not exist.
func (c *catalog) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Upsert inserts or replaces a product, keyed by ID. Used by seeding and by
// the owning product flow.
func (c *catalog) Upsert(ctx context.Context, product domain.Product) error {
	if product.ID == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	products, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, product)
	}

	if err := c.repo.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}
