package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/product"
	"github.com/hieudt/brewstock/internal/recipe"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/storage"
)

// newRecipeRouter wires the recipe handlers over real services with product
// p1 (price 40) and ingredients ing-a (cost 5) and ing-b (cost 20) seeded.
func newRecipeRouter(t *testing.T) chi.Router {
	t.Helper()
	InitValidator()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	ingredientRepo := repository.NewKVIngredient(store)
	require.NoError(t, ingredientRepo.ReplaceAll(ctx, []domain.Ingredient{
		{ID: "ing-a", Name: "A", Unit: "g", Stock: decimal.NewFromInt(10), CostPerUnit: decimal.NewFromInt(5), Active: true},
		{ID: "ing-b", Name: "B", Unit: "ml", Stock: decimal.NewFromInt(5), CostPerUnit: decimal.NewFromInt(20), Active: true},
	}))

	catalog := product.NewCatalog(repository.NewKVProduct(store))
	require.NoError(t, catalog.Upsert(ctx, domain.Product{ID: "p1", Name: "Caffe Latte", Price: decimal.NewFromInt(40)}))

	svc := recipe.NewService(repository.NewKVRecipe(store), ingredientRepo, catalog)

	r := chi.NewRouter()
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", HandleListRecipes(svc))
		r.Post("/", HandleCreateRecipe(svc))
		r.Get("/by-product/{productId}", HandleGetRecipeByProduct(svc))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", HandleGetRecipe(svc))
			r.Patch("/", HandleUpdateRecipe(svc))
			r.Delete("/", HandleDeleteRecipe(svc))
			r.Get("/cost", HandleRecipeCost(svc))
		})
	})
	r.Route("/products/{id}", func(r chi.Router) {
		r.Get("/cost", HandleProductCost(svc))
		r.Get("/profit", HandleProductProfit(svc))
	})
	return r
}

func latteRequest() CreateRecipeRequest {
	return CreateRecipeRequest{
		ProductID: "p1",
		Name:      "Caffe Latte",
		Ingredients: []RecipeLineRequest{
			{IngredientID: "ing-a", Quantity: decimal.NewFromInt(2)},
			{IngredientID: "ing-b", Quantity: decimal.NewFromInt(1)},
		},
	}
}

func TestHandleCreateRecipe(t *testing.T) {
	r := newRecipeRouter(t)

	w := doJSON(t, r, "POST", "/recipes", latteRequest())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe added")

	w = doJSON(t, r, "GET", "/recipes/by-product/p1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Caffe Latte")
}

func TestHandleCreateRecipeValidation(t *testing.T) {
	r := newRecipeRouter(t)

	w := doJSON(t, r, "POST", "/recipes", CreateRecipeRequest{ProductID: "p1", Name: "Empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := latteRequest()
	req.ProductID = "unknown"
	w = doJSON(t, r, "POST", "/recipes", req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")
}

func TestHandleCreateRecipeDuplicate(t *testing.T) {
	r := newRecipeRouter(t)

	w := doJSON(t, r, "POST", "/recipes", latteRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/recipes", latteRequest())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already has a recipe")
}

func TestHandleGetRecipeByProductMissing(t *testing.T) {
	r := newRecipeRouter(t)

	w := doJSON(t, r, "GET", "/recipes/by-product/p1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleProductCostAndProfit(t *testing.T) {
	r := newRecipeRouter(t)

	w := doJSON(t, r, "POST", "/recipes", latteRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	// 2 x 5 + 1 x 20
	w = doJSON(t, r, "GET", "/products/p1/cost", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cost":"30"`)

	w = doJSON(t, r, "GET", "/products/p1/profit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"profit":"10"`)
	assert.Contains(t, w.Body.String(), `"margin":"25"`)

	// A product without a recipe costs zero instead of erroring.
	w = doJSON(t, r, "GET", "/products/untracked/cost", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cost":"0"`)
}
