package handler

import (
	"errors"
	"net/http"

	"github.com/hieudt/brewstock/internal/domain"
)

// Generic HTTP error messages for client responses.
const (
	ErrMsgInvalidRequest  = "Invalid request body"
	ErrMsgMissingID       = "Missing id path parameter"
	ErrMsgServerError     = "Something went wrong"
	ErrMsgListFailed      = "Failed to list records"
	ErrMsgLowStockFailed  = "Failed to check low stock"
	ErrMsgCostFailed      = "Failed to calculate cost"
	ErrMsgExportFailed    = "Failed to export order"
	ErrMsgCheckFailed     = "Failed to check order availability"
	ErrMsgRestockFailed   = "Failed to restock order"
	ErrMsgNotFoundGeneric = "Resource not found"
)

// respondServiceError translates a domain error into an HTTP response.
// Expected business failures carry actionable messages written for an
// operator, so they are passed through as-is; anything else is a 500 with
// a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicateRecipe),
		errors.Is(err, domain.ErrIngredientInUse),
		errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, ErrMsgServerError)
	}
}
