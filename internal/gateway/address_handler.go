package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_storefront/internal/domain"
)

type AddressService interface {
	ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error)
	AddAddress(ctx context.Context, userID string, addr domain.OrderAddress, isDefault bool) (*domain.SavedAddress, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	SetDefaultAddress(ctx context.Context, userID, addressID string) error
}

// AddressHandler serves the saved-address book. Anonymous sessions have
// no address book, so every endpoint requires an authenticated user.
type AddressHandler struct {
	profiles AddressService
	timeout  time.Duration
}

func NewAddressHandler(profiles AddressService, timeout time.Duration) *AddressHandler {
	return &AddressHandler{
		profiles: profiles,
		timeout:  timeout,
	}
}

type AddAddressRequestDTO struct {
	Address   domain.OrderAddress `json:"address"`
	IsDefault bool                `json:"is_default"`
}

func (h *AddressHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := ownerFromContext(r.Context())
	if !ok || owner.UserID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to manage saved addresses")
		return "", false
	}
	return owner.UserID, true
}

func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	addresses, err := h.profiles.ListAddresses(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req AddAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved, err := h.profiles.AddAddress(ctx, userID, req.Address, req.IsDefault)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	addressID := chi.URLParam(r, "address_id")
	if err := h.profiles.DeleteAddress(ctx, userID, addressID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AddressHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	addressID := chi.URLParam(r, "address_id")
	if err := h.profiles.SetDefaultAddress(ctx, userID, addressID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "default_set"})
}
