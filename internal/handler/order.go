package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hieudt/brewstock/internal/availability"
	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/fulfillment"
	"github.com/hieudt/brewstock/internal/logger"
)

type OrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,dive"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=1000"`
}

func toLineItems(items []OrderItemRequest) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// HandleExportOrder deducts an order's ingredient consumption from the
// ledger. ?mode=atomic switches from best-effort to all-or-nothing.
func HandleExportOrder(svc fulfillment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode export order request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", FormatValidationError(err)))
			return
		}

		mode := fulfillment.ModeBestEffort
		if r.URL.Query().Get("mode") == string(fulfillment.ModeAtomic) {
			mode = fulfillment.ModeAtomic
		}

		result, err := svc.ExportOrder(r.Context(), toLineItems(req.Items), mode)
		if err != nil {
			log.Error("Failed to export order", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgExportFailed)
			return
		}

		// Partial failure is a business outcome, not a transport error:
		// the caller branches on the success flag.
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCheckOrder runs the read-only availability pre-flight for an order.
func HandleCheckOrder(checker availability.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode check order request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		report, err := checker.CheckOrder(r.Context(), toLineItems(req.Items))
		if err != nil {
			log.Error("Failed to check order", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgCheckFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: report})
	}
}

// HandleRestockOrder returns a cancelled order's consumption to stock.
func HandleRestockOrder(svc fulfillment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode restock order request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		result, err := svc.RestockOrder(r.Context(), toLineItems(req.Items))
		if err != nil {
			log.Error("Failed to restock order", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgRestockFailed)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}
