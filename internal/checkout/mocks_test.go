package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

var errProductMissing = errors.New("product not found")

type mockOrderService struct {
	mu            sync.Mutex
	createCalls   int
	lastOwner     domain.OwnerRef
	lastItems     []domain.OrderDraftItem
	lastTotal     float64
	lastCurrency  string
	lastAddress   domain.OrderAddress
	lastClientOID string
	err           error
}

func (m *mockOrderService) CreateOrder(_ context.Context, owner domain.OwnerRef, items []domain.OrderDraftItem,
	totalAmount float64, currency string, shippingAddress domain.OrderAddress,
	clientOrderID string) (*domain.Order, error) {

	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.lastOwner = owner
	m.lastItems = items
	m.lastTotal = totalAmount
	m.lastCurrency = currency
	m.lastAddress = shippingAddress
	m.lastClientOID = clientOrderID

	if m.err != nil {
		return nil, m.err
	}
	return &domain.Order{
		ID:              "order-1",
		Owner:           owner,
		Items:           items,
		TotalAmount:     totalAmount,
		Currency:        currency,
		ShippingAddress: shippingAddress,
		ClientOrderID:   clientOrderID,
		CreatedAt:       time.Now(),
	}, nil
}

func (m *mockOrderService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

type mockCartService struct {
	mu         sync.Mutex
	cart       *domain.Cart
	getErr     error
	clearErr   error
	clearCalls int
	cleared    chan domain.OwnerRef
}

func (m *mockCartService) GetCart(_ context.Context, _ domain.OwnerRef) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cart, nil
}

func (m *mockCartService) ClearCart(_ context.Context, owner domain.OwnerRef) error {
	m.mu.Lock()
	m.clearCalls++
	err := m.clearErr
	m.mu.Unlock()
	if m.cleared != nil {
		m.cleared <- owner
	}
	return err
}

func (m *mockCartService) clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

type mockProductService struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	err      error
}

func (m *mockProductService) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, errProductMissing
	}
	return p, nil
}

func (m *mockProductService) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type mockProfileService struct {
	saved *domain.SavedAddress
	err   error
}

func (m *mockProfileService) DefaultAddress(_ context.Context, _ string) (*domain.SavedAddress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.saved, nil
}
