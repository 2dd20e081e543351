package checkout

import (
	"context"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// Collaborator contracts, defined on the consumer side. The backend
// packages satisfy them; tests swap in mocks.

type OrderService interface {
	CreateOrder(ctx context.Context, owner domain.OwnerRef, items []domain.OrderDraftItem,
		totalAmount float64, currency string, shippingAddress domain.OrderAddress,
		clientOrderID string) (*domain.Order, error)
}

type CartService interface {
	GetCart(ctx context.Context, owner domain.OwnerRef) (*domain.Cart, error)
	ClearCart(ctx context.Context, owner domain.OwnerRef) error
}

type ProductService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type ProfileService interface {
	DefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error)
}

type OrderHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

func (h *OrderHandler) create(ctx context.Context, owner domain.OwnerRef, draft *domain.OrderDraft,
	addr domain.OrderAddress) (*domain.Order, error) {

	orderCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.orders.CreateOrder(orderCtx, owner, draft.Items, draft.TotalAmount, draft.Currency, addr, draft.ID)
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

func (h *CartHandler) getCart(ctx context.Context, owner domain.OwnerRef) (*domain.Cart, error) {
	cartCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.carts.GetCart(cartCtx, owner)
}

func (h *CartHandler) clearCart(ctx context.Context, owner domain.OwnerRef) error {
	cartCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.carts.ClearCart(cartCtx, owner)
}

// ProductHandler guards catalog reads with a circuit breaker: during
// enrichment a dead catalog degrades to draft-captured data instead of
// being hammered once per line item.
type ProductHandler struct {
	products ProductService
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[*domain.Product]
}

func NewProductHandler(products ProductService, timeout time.Duration) *ProductHandler {
	breaker := gobreaker.NewCircuitBreaker[*domain.Product](gobreaker.Settings{
		Name: "catalog",
	})
	return &ProductHandler{
		products: products,
		timeout:  timeout,
		breaker:  breaker,
	}
}

func (h *ProductHandler) get(ctx context.Context, id string) (*domain.Product, error) {
	return h.breaker.Execute(func() (*domain.Product, error) {
		productCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		return h.products.GetProduct(productCtx, id)
	})
}

type ProfileHandler struct {
	profiles ProfileService
	timeout  time.Duration
}

func NewProfileHandler(profiles ProfileService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		timeout:  timeout,
	}
}

func (h *ProfileHandler) defaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error) {
	profileCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.profiles.DefaultAddress(profileCtx, userID)
}
