package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/logger"
)

type CreateIngredientRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Unit        string          `json:"unit" validate:"required,max=30"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

type UpdateIngredientRequest struct {
	Name        *string          `json:"name,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Stock       *decimal.Decimal `json:"stock,omitempty"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
}

type StockChangeRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type ToggleIngredientResponse struct {
	Active bool `json:"active"`
}

// HandleListIngredients lists ingredients, optionally only active ones
// (?active=true).
func HandleListIngredients(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		activeOnly := r.URL.Query().Get("active") == "true"
		ingredients, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			log.Error("Failed to list ingredients", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgListFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: ingredients})
	}
}

// HandleGetIngredient returns one ingredient by id.
func HandleGetIngredient(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		ing, err := svc.GetByID(r.Context(), id)
		if err != nil {
			log.Error("Failed to get ingredient", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, ErrMsgServerError)
			return
		}
		if ing == nil {
			respondError(w, http.StatusNotFound, domain.ErrMsgIngredientNotFound)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: ing})
	}
}

// HandleCreateIngredient creates a new ingredient.
func HandleCreateIngredient(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateIngredientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode create ingredient request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", FormatValidationError(err)))
			return
		}

		ing, err := svc.Add(r.Context(), ingredient.AddParams{
			Name:        req.Name,
			Unit:        req.Unit,
			Stock:       req.Stock,
			MinStock:    req.MinStock,
			CostPerUnit: req.CostPerUnit,
		})
		if err != nil {
			log.Warn("Failed to add ingredient", "error", err, "name", req.Name)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Message: "Ingredient added", Data: ing})
	}
}

// HandleUpdateIngredient merges the supplied fields over an ingredient.
func HandleUpdateIngredient(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")

		var req UpdateIngredientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode update ingredient request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		ing, err := svc.Update(r.Context(), id, ingredient.UpdateParams{
			Name:        req.Name,
			Unit:        req.Unit,
			Stock:       req.Stock,
			MinStock:    req.MinStock,
			CostPerUnit: req.CostPerUnit,
		})
		if err != nil {
			log.Warn("Failed to update ingredient", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: "Ingredient updated", Data: ing})
	}
}

// HandleDeleteIngredient removes an ingredient unless a recipe references it.
func HandleDeleteIngredient(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			log.Warn("Failed to delete ingredient", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Ingredient deleted"})
	}
}

// HandleToggleIngredient flips an ingredient's active flag.
func HandleToggleIngredient(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		active, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			log.Warn("Failed to toggle ingredient", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: "Ingredient toggled",
			Data:    ToggleIngredientResponse{Active: active},
		})
	}
}

// HandleDeductStock removes quantity from an ingredient's stock.
func HandleDeductStock(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")

		var req StockChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode deduct request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		result, err := svc.Deduct(r.Context(), id, req.Quantity)
		if err != nil {
			log.Warn("Failed to deduct stock", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: "Stock deducted", Data: result})
	}
}

// HandleAddStock increases an ingredient's stock.
func HandleAddStock(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")

		var req StockChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode add stock request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		newStock, err := svc.AddStock(r.Context(), id, req.Quantity)
		if err != nil {
			log.Warn("Failed to add stock", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: "Stock added",
			Data:    map[string]decimal.Decimal{"new_stock": newStock},
		})
	}
}

// HandleLowStock reports active ingredients at or below their threshold.
func HandleLowStock(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		items, err := svc.CheckLowStock(r.Context())
		if err != nil {
			log.Error("Failed to check low stock", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgLowStockFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}

// HandleCheckAvailability runs a read-only stock check over arbitrary
// ingredient requirements.
func HandleCheckAvailability(svc ingredient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var requests []domain.StockRequest
		if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
			log.Error("Failed to decode availability request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		report, err := svc.CheckAvailability(r.Context(), requests)
		if err != nil {
			log.Error("Failed to check availability", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgServerError)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: report})
	}
}
