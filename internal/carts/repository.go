package carts

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, owner domain.OwnerRef) (*domain.Cart, error)
	AddItem(ctx context.Context, owner domain.OwnerRef, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, owner domain.OwnerRef, productID string, quantity int) error
	RemoveItem(ctx context.Context, owner domain.OwnerRef, productID string) error
	DeleteCart(ctx context.Context, owner domain.OwnerRef) error
}

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)
