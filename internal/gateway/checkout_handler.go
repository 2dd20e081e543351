package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
)

type CheckoutHandler struct {
	orch    *checkout.Orchestrator
	timeout time.Duration
}

func NewCheckoutHandler(orch *checkout.Orchestrator, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orch:    orch,
		timeout: timeout,
	}
}

type OrderNowResponseDTO struct {
	DraftID string `json:"draft_id"`
}

type CheckoutViewDTO struct {
	DraftID string                  `json:"draft_id"`
	Status  domain.CheckoutStatus   `json:"status"`
	Draft   *domain.OrderDraft      `json:"draft,omitempty"`
	Address domain.OrderAddress     `json:"address"`
	Items   []checkout.EnrichedItem `json:"items,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// OrderNow freezes the current cart into a draft and hands back its id.
func (h *CheckoutHandler) OrderNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	owner, ok := ownerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart owner")
		return
	}

	draftID, err := h.orch.OrderNow(ctx, owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, OrderNowResponseDTO{DraftID: draftID})
}

// GetCheckout loads (or revisits) the checkout session for a draft.
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	owner, ok := ownerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart owner")
		return
	}

	draftID := chi.URLParam(r, "draft_id")
	c, err := h.orch.Begin(ctx, draftID, owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutViewDTO{
		DraftID: draftID,
		Status:  c.Status(),
		Draft:   c.Draft(),
		Address: c.Address(),
		Items:   c.EnrichedItems(ctx),
		Message: c.LastError(),
	})
}

// SelectAddress swaps in a different shipping address before submission.
func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	owner, ok := ownerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart owner")
		return
	}

	draftID := chi.URLParam(r, "draft_id")
	var addr domain.OrderAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.orch.Begin(ctx, draftID, owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if err := c.SelectAddress(addr); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutViewDTO{
		DraftID: draftID,
		Status:  c.Status(),
		Address: c.Address(),
	})
}

// Submit places the order with the frozen draft total.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	owner, ok := ownerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart owner")
		return
	}

	draftID := chi.URLParam(r, "draft_id")
	var addr domain.OrderAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.orch.Begin(ctx, draftID, owner)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// an empty body submits with the previously selected address
	if addr == (domain.OrderAddress{}) {
		addr = c.Address()
	}

	order, err := c.Submit(ctx, addr)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
