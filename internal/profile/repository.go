package profile

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// AddressRepository defines the interface for saved-address operations
type AddressRepository interface {
	ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error)
	InsertAddress(ctx context.Context, addr *domain.SavedAddress) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	// SetDefault flags one address and clears the flag everywhere else.
	SetDefault(ctx context.Context, userID, addressID string) error
	ClearDefault(ctx context.Context, userID string) error
}

var ErrAddressNotFound = errors.New("address not found")
