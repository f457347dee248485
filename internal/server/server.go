package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hieudt/brewstock/internal/availability"
	"github.com/hieudt/brewstock/internal/fulfillment"
	"github.com/hieudt/brewstock/internal/handler"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/metrics"
	"github.com/hieudt/brewstock/internal/recipe"
)

// Server serves the inventory admin API.
type Server struct {
	httpServer         *http.Server
	ingredientService  ingredient.Service
	recipeService      recipe.Service
	fulfillmentService fulfillment.Service
	checker            availability.Checker
}

// NewServer creates a new Server instance. pinger may be nil when the
// storage backend has no connection to probe.
func NewServer(port int, pinger handler.Pinger, ingredientService ingredient.Service, recipeService recipe.Service, fulfillmentService fulfillment.Service, checker availability.Checker) *Server {
	r := chi.NewRouter()

	// Middleware executes in order defined (outermost to innermost)
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(pinger))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", handler.HandleListIngredients(ingredientService))
			r.Post("/", handler.HandleCreateIngredient(ingredientService))
			r.Get("/low-stock", handler.HandleLowStock(ingredientService))
			r.Post("/availability", handler.HandleCheckAvailability(ingredientService))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.HandleGetIngredient(ingredientService))
				r.Patch("/", handler.HandleUpdateIngredient(ingredientService))
				r.Delete("/", handler.HandleDeleteIngredient(ingredientService))
				r.Post("/toggle", handler.HandleToggleIngredient(ingredientService))
				r.Post("/deduct", handler.HandleDeductStock(ingredientService))
				r.Post("/restock", handler.HandleAddStock(ingredientService))
			})
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", handler.HandleListRecipes(recipeService))
			r.Post("/", handler.HandleCreateRecipe(recipeService))
			r.Get("/by-product/{productId}", handler.HandleGetRecipeByProduct(recipeService))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.HandleGetRecipe(recipeService))
				r.Patch("/", handler.HandleUpdateRecipe(recipeService))
				r.Delete("/", handler.HandleDeleteRecipe(recipeService))
				r.Get("/cost", handler.HandleRecipeCost(recipeService))
			})
		})

		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/cost", handler.HandleProductCost(recipeService))
			r.Get("/profit", handler.HandleProductProfit(recipeService))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/export", handler.HandleExportOrder(fulfillmentService))
			r.Post("/check", handler.HandleCheckOrder(checker))
			r.Post("/restock", handler.HandleRestockOrder(fulfillmentService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ingredientService:  ingredientService,
		recipeService:      recipeService,
		fulfillmentService: fulfillmentService,
		checker:            checker,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
