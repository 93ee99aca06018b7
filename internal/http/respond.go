package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/checkout"
	"github.com/dean3213321/inventory-pos/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps known errors to HTTP statuses; everything else
// degrades to a bad-gateway with the generic message.
func handleDomainError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, backend.ErrBuyerNotFound):
		respondError(w, http.StatusNotFound, "buyer_not_found", err.Error())
	case errors.Is(err, backend.ErrDuplicateSalesRecord):
		respondError(w, http.StatusConflict, "duplicate_sales_record",
			"a record with this buyer name already exists, use a different name")
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrCommitInFlight):
		respondError(w, http.StatusConflict, "commit_in_flight", err.Error())
	case errors.Is(err, checkout.ErrSessionConsumed):
		respondError(w, http.StatusGone, "session_consumed", err.Error())
	case errors.As(err, &apiErr):
		respondError(w, apiErr.StatusCode, "backend_error", apiErr.Message)
	default:
		log.Printf("backend call failed: %v", err)
		respondError(w, http.StatusBadGateway, "backend_unavailable",
			"the inventory backend could not be reached")
	}
}
