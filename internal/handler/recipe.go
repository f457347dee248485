package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/logger"
	"github.com/hieudt/brewstock/internal/recipe"
)

type RecipeLineRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type CreateRecipeRequest struct {
	ProductID   string              `json:"product_id" validate:"required"`
	Name        string              `json:"name" validate:"required,max=100"`
	Ingredients []RecipeLineRequest `json:"ingredients" validate:"required,min=1,dive"`
}

type UpdateRecipeRequest struct {
	ProductID   *string             `json:"product_id,omitempty"`
	Name        *string             `json:"name,omitempty"`
	Ingredients []RecipeLineRequest `json:"ingredients,omitempty"`
}

func toRecipeLines(lines []RecipeLineRequest) []domain.RecipeLine {
	out := make([]domain.RecipeLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.RecipeLine{IngredientID: l.IngredientID, Quantity: l.Quantity})
	}
	return out
}

// HandleListRecipes lists all recipes.
func HandleListRecipes(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		recipes, err := svc.List(r.Context())
		if err != nil {
			log.Error("Failed to list recipes", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgListFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: recipes})
	}
}

// HandleGetRecipe returns one recipe by id.
func HandleGetRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		rec, err := svc.GetByID(r.Context(), id)
		if err != nil {
			log.Error("Failed to get recipe", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, ErrMsgServerError)
			return
		}
		if rec == nil {
			respondError(w, http.StatusNotFound, domain.ErrMsgRecipeNotFound)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: rec})
	}
}

// HandleGetRecipeByProduct resolves a product's recipe, if any.
func HandleGetRecipeByProduct(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		productID := chi.URLParam(r, "productId")
		rec, err := svc.GetByProductID(r.Context(), productID)
		if err != nil {
			log.Error("Failed to get recipe by product", "error", err, "productId", productID)
			respondError(w, http.StatusInternalServerError, ErrMsgServerError)
			return
		}
		if rec == nil {
			respondError(w, http.StatusNotFound, domain.ErrMsgRecipeNotFound)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: rec})
	}
}

// HandleCreateRecipe creates a new recipe for a product.
func HandleCreateRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode create recipe request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", FormatValidationError(err)))
			return
		}

		rec, err := svc.Add(r.Context(), recipe.AddParams{
			ProductID:   req.ProductID,
			Name:        req.Name,
			Ingredients: toRecipeLines(req.Ingredients),
		})
		if err != nil {
			log.Warn("Failed to add recipe", "error", err, "product", req.ProductID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Message: "Recipe added", Data: rec})
	}
}

// HandleUpdateRecipe merges the supplied fields over a recipe.
func HandleUpdateRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")

		var req UpdateRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode update recipe request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		params := recipe.UpdateParams{
			ProductID: req.ProductID,
			Name:      req.Name,
		}
		if req.Ingredients != nil {
			params.Ingredients = toRecipeLines(req.Ingredients)
		}

		rec, err := svc.Update(r.Context(), id, params)
		if err != nil {
			log.Warn("Failed to update recipe", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: "Recipe updated", Data: rec})
	}
}

// HandleDeleteRecipe removes a recipe.
func HandleDeleteRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			log.Warn("Failed to delete recipe", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Recipe deleted"})
	}
}

// HandleRecipeCost returns a recipe's cost roll-up with per-line detail.
func HandleRecipeCost(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		cost, err := svc.CalculateCost(r.Context(), id)
		if err != nil {
			log.Error("Failed to calculate recipe cost", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, ErrMsgCostFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: cost})
	}
}

// HandleProductCost returns the cost of a product's recipe (zero when the
// product has no recipe).
func HandleProductCost(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		productID := chi.URLParam(r, "id")
		cost, err := svc.ProductCost(r.Context(), productID)
		if err != nil {
			log.Error("Failed to calculate product cost", "error", err, "productId", productID)
			respondError(w, http.StatusInternalServerError, ErrMsgCostFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: cost})
	}
}

// HandleProductProfit returns price, cost, profit and margin for a product.
func HandleProductProfit(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		productID := chi.URLParam(r, "id")
		profit, err := svc.ProductProfit(r.Context(), productID)
		if err != nil {
			log.Error("Failed to calculate product profit", "error", err, "productId", productID)
			respondError(w, http.StatusInternalServerError, ErrMsgCostFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: profit})
	}
}
