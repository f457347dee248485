// Command seed loads a small demo data set into the configured storage
// backend: a handful of ingredients, a few products and their recipes.
// Running it twice is safe for products (upserts) but will fail on the
// duplicate ingredient names, which is the signal the store is already
// seeded.
package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/config"
	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/product"
	"github.com/hieudt/brewstock/internal/recipe"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer cleanup()

	ingredientRepo := repository.NewKVIngredient(store)
	recipeRepo := repository.NewKVRecipe(store)
	productRepo := repository.NewKVProduct(store)

	products := product.NewCatalog(productRepo)
	ledger := ingredient.NewService(ingredientRepo, recipeRepo)
	recipes := recipe.NewService(recipeRepo, ingredientRepo, products)

	if err := seed(ctx, products, ledger, recipes); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed data loaded")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.DriverPostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.GetDBConnString())
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		// Seeding a memory store is only useful for smoke runs, but it
		// exercises the same code path.
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func seed(ctx context.Context, products product.Catalog, ledger ingredient.Service, recipes recipe.Service) error {
	for _, p := range []domain.Product{
		{ID: "espresso", Name: "Espresso", Price: decimal.NewFromFloat(2.50)},
		{ID: "latte", Name: "Caffe Latte", Price: decimal.NewFromFloat(4.00)},
		{ID: "cold-brew", Name: "Cold Brew", Price: decimal.NewFromFloat(3.50)},
	} {
		if err := products.Upsert(ctx, p); err != nil {
			return err
		}
	}

	ingredientIDs := make(map[string]string)
	for _, params := range []ingredient.AddParams{
		{Name: "Espresso beans", Unit: "g", Stock: decimal.NewFromInt(2000), MinStock: decimal.NewFromInt(500), CostPerUnit: decimal.NewFromFloat(0.03)},
		{Name: "Whole milk", Unit: "ml", Stock: decimal.NewFromInt(5000), MinStock: decimal.NewFromInt(1000), CostPerUnit: decimal.NewFromFloat(0.002)},
		{Name: "Coarse ground coffee", Unit: "g", Stock: decimal.NewFromInt(1500), MinStock: decimal.NewFromInt(300), CostPerUnit: decimal.NewFromFloat(0.025)},
		{Name: "Ice", Unit: "g", Stock: decimal.NewFromInt(10000), MinStock: decimal.NewFromInt(2000), CostPerUnit: decimal.NewFromFloat(0.0005)},
	} {
		ing, err := ledger.Add(ctx, params)
		if err != nil {
			return err
		}
		ingredientIDs[params.Name] = ing.ID
	}

	for _, params := range []recipe.AddParams{
		{
			ProductID: "espresso",
			Name:      "Espresso",
			Ingredients: []domain.RecipeLine{
				{IngredientID: ingredientIDs["Espresso beans"], Quantity: decimal.NewFromInt(18)},
			},
		},
		{
			ProductID: "latte",
			Name:      "Caffe Latte",
			Ingredients: []domain.RecipeLine{
				{IngredientID: ingredientIDs["Espresso beans"], Quantity: decimal.NewFromInt(18)},
				{IngredientID: ingredientIDs["Whole milk"], Quantity: decimal.NewFromInt(220)},
			},
		},
		{
			ProductID: "cold-brew",
			Name:      "Cold Brew",
			Ingredients: []domain.RecipeLine{
				{IngredientID: ingredientIDs["Coarse ground coffee"], Quantity: decimal.NewFromInt(60)},
				{IngredientID: ingredientIDs["Ice"], Quantity: decimal.NewFromInt(150)},
			},
		},
	} {
		if _, err := recipes.Add(ctx, params); err != nil {
			return err
		}
	}

	return nil
}
