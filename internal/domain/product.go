package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the slice of the product catalog the inventory engine needs:
// identity and selling price. Full product management lives elsewhere.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductLookup resolves products owned by the product catalog. A nil result
// with a nil error means the product does not exist.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*Product, error)
}
