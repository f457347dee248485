package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/storage"
)

func newTestCatalog(t *testing.T) Catalog {
	t.Helper()
	return NewCatalog(repository.NewKVProduct(storage.NewMemoryStore()))
}

func TestUpsertAndLookup(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	latte := domain.Product{ID: "latte", Name: "Caffe Latte", Price: decimal.NewFromFloat(4.00)}
	require.NoError(t, catalog.Upsert(ctx, latte))

	got, err := catalog.GetProductByID(ctx, "latte")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Caffe Latte", got.Name)

	// Upsert with the same ID replaces instead of appending.
	latte.Price = decimal.NewFromFloat(4.50)
	require.NoError(t, catalog.Upsert(ctx, latte))

	all, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Price.Equal(decimal.NewFromFloat(4.50)))
}

func TestLookupMissingProduct(t *testing.T) {
	catalog := newTestCatalog(t)

	got, err := catalog.GetProductByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "an absent product is nil, not an error")
}

func TestUpsertRequiresID(t *testing.T) {
	catalog := newTestCatalog(t)

	err := catalog.Upsert(context.Background(), domain.Product{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
