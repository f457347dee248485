package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieudt/brewstock/internal/availability"
	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/fulfillment"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/storage"
)

// newOrderRouter wires the order handlers over a real ledger with product p1
// consuming 2 x ing-a (stock 10) and 1 x ing-b (stock 5) per unit.
func newOrderRouter(t *testing.T) (chi.Router, ingredient.Service) {
	t.Helper()
	InitValidator()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	ingredientRepo := repository.NewKVIngredient(store)
	require.NoError(t, ingredientRepo.ReplaceAll(ctx, []domain.Ingredient{
		{ID: "ing-a", Name: "A", Unit: "g", Stock: decimal.NewFromInt(10), Active: true},
		{ID: "ing-b", Name: "B", Unit: "ml", Stock: decimal.NewFromInt(5), Active: true},
	}))

	recipeRepo := repository.NewKVRecipe(store)
	require.NoError(t, recipeRepo.ReplaceAll(ctx, []domain.Recipe{
		{ID: "r1", ProductID: "p1", Name: "Latte", Ingredients: []domain.RecipeLine{
			{IngredientID: "ing-a", Quantity: decimal.NewFromInt(2)},
			{IngredientID: "ing-b", Quantity: decimal.NewFromInt(1)},
		}},
	}))

	ledger := ingredient.NewService(ingredientRepo, recipeRepo)
	resolver := &recipeRepoResolver{repo: recipeRepo}
	checker := availability.NewChecker(resolver, ledger)
	svc := fulfillment.NewService(resolver, ledger, checker)

	r := chi.NewRouter()
	r.Route("/orders", func(r chi.Router) {
		r.Post("/export", HandleExportOrder(svc))
		r.Post("/check", HandleCheckOrder(checker))
		r.Post("/restock", HandleRestockOrder(svc))
	})
	return r, ledger
}

// recipeRepoResolver adapts the raw repository to the resolver interfaces.
type recipeRepoResolver struct {
	repo repository.Recipe
}

func (r *recipeRepoResolver) GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error) {
	recipes, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		if recipes[i].ProductID == productID {
			return &recipes[i], nil
		}
	}
	return nil, nil
}

func orderBody(quantity int) OrderRequest {
	return OrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: quantity}}}
}

func TestHandleExportOrder(t *testing.T) {
	r, ledger := newOrderRouter(t)

	w := doJSON(t, r, "POST", "/orders/export", orderBody(3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	ing, err := ledger.GetByID(context.Background(), "ing-a")
	require.NoError(t, err)
	assert.True(t, ing.Stock.Equal(decimal.NewFromInt(4)))
}

// Insufficient stock is a business outcome reported in the payload, not a
// transport error.
func TestHandleExportOrderInsufficientStock(t *testing.T) {
	r, _ := newOrderRouter(t)

	w := doJSON(t, r, "POST", "/orders/export", orderBody(10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "not enough stock")
}

func TestHandleExportOrderAtomicMode(t *testing.T) {
	r, ledger := newOrderRouter(t)

	w := doJSON(t, r, "POST", "/orders/export?mode=atomic", orderBody(10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	// The atomic pre-check refused the order before any deduction.
	ing, err := ledger.GetByID(context.Background(), "ing-a")
	require.NoError(t, err)
	assert.True(t, ing.Stock.Equal(decimal.NewFromInt(10)))
}

func TestHandleExportOrderValidation(t *testing.T) {
	r, _ := newOrderRouter(t)

	req := httptest.NewRequest("POST", "/orders/export", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w := doJSON(t, r, "POST", "/orders/export", OrderRequest{
		Items: []OrderItemRequest{{Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "line items need a product id")
}

func TestHandleCheckOrder(t *testing.T) {
	r, _ := newOrderRouter(t)

	w := doJSON(t, r, "POST", "/orders/check", orderBody(3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"can_fulfill":true`)

	w = doJSON(t, r, "POST", "/orders/check", orderBody(10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"can_fulfill":false`)
	assert.Contains(t, w.Body.String(), `"shortages"`)
}

func TestHandleRestockOrder(t *testing.T) {
	r, ledger := newOrderRouter(t)

	w := doJSON(t, r, "POST", "/orders/export", orderBody(3))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/orders/restock", orderBody(3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	ing, err := ledger.GetByID(context.Background(), "ing-a")
	require.NoError(t, err)
	assert.True(t, ing.Stock.Equal(decimal.NewFromInt(10)))
}
