package profile

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
)

type Service struct {
	repo AddressRepository
}

func NewService(repo AddressRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error) {
	return s.repo.ListAddresses(ctx, userID)
}

func (s *Service) AddAddress(ctx context.Context, userID string, addr domain.OrderAddress, isDefault bool) (*domain.SavedAddress, error) {
	if missing := addr.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("address is missing mandatory fields: %v", missing)
	}

	if isDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	saved := &domain.SavedAddress{
		ID:        uuid.NewString(),
		UserID:    userID,
		Address:   addr,
		IsDefault: isDefault,
	}
	if err := s.repo.InsertAddress(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return s.repo.DeleteAddress(ctx, userID, addressID)
}

func (s *Service) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	return s.repo.SetDefault(ctx, userID, addressID)
}

// DefaultAddress returns the default-flagged address, or the first saved
// one when nothing is flagged. Used by the checkout prefill.
func (s *Service) DefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error) {
	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrAddressNotFound
	}

	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i], nil
		}
	}
	return &addresses[0], nil
}
