package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hieudt/brewstock/internal/availability"
	"github.com/hieudt/brewstock/internal/config"
	"github.com/hieudt/brewstock/internal/fulfillment"
	"github.com/hieudt/brewstock/internal/handler"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/product"
	"github.com/hieudt/brewstock/internal/recipe"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/server"
	"github.com/hieudt/brewstock/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	ctx := context.Background()

	store, pinger, cleanup, err := openStore(ctx, cfg)
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
	checker := availability.NewChecker(recipes, ledger)
	fulfillmentService := fulfillment.NewService(recipes, ledger, checker)

	srv := server.NewServer(cfg.Port, pinger, ledger, recipes, fulfillmentService, checker)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
}

// openStore builds the storage backend selected by configuration. The
// returned pinger is nil for backends without a connection to probe.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, handler.Pinger, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil, func() {}, nil
	case config.DriverFile:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() {}, nil
	case config.DriverPostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.GetDBConnString())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	default:
		return storage.NewMemoryStore(), nil, func() {}, nil
	}
}
