package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/fjod/go_storefront/internal/carts"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/draftstore"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/profile"
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

// handleServiceError converts service-layer sentinel errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *orders.ValidationError
	var addressErr *checkout.AddressValidationError

	switch {
	case errors.As(err, &addressErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   addressErr.Error(),
			Code:    "address_incomplete",
			Details: strings.Join(addressErr.Fields, ", "),
		})
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "invalid_order", validationErr.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrMixedCurrency):
		respondError(w, http.StatusConflict, "mixed_currency", checkout.ErrMixedCurrency.Error())
	case errors.Is(err, checkout.IllegalTransitionError):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, draftstore.ErrDraftNotFound):
		respondError(w, http.StatusNotFound, "draft_not_found", "order draft not found, please restart checkout")
	case errors.Is(err, carts.ErrCartNotFound), errors.Is(err, carts.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, profile.ErrAddressNotFound):
		respondError(w, http.StatusNotFound, "address_not_found", "address not found")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, domain.ErrInvalidOwner):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
