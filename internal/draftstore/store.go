package draftstore

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// Store persists order drafts between "order now" and order submission.
// Consumers define this interface, not the storage implementations.
type Store interface {
	// Create freezes a line-item snapshot for the owner under a fresh
	// unique id and returns that id. The total is the frozen quote,
	// never recomputed.
	Create(ctx context.Context, owner domain.OwnerRef, items []domain.OrderDraftItem, total float64, currency string) (string, error)
	// Load returns ErrDraftNotFound when the draft never existed, was
	// already deleted or expired. Callers treat that as terminal.
	Load(ctx context.Context, draftID string) (*domain.OrderDraft, error)
	// Delete is idempotent; deleting an absent draft is not an error.
	Delete(ctx context.Context, draftID string) error
}

var ErrDraftNotFound = errors.New("order draft not found")
