package cartstore

import (
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// Item is a line in the shopper's in-progress selection. The product side
// is a ProductRef: locally added items carry the embedded product, items
// hydrated from the backend may only carry the id.
type Item struct {
	Product  domain.ProductRef
	Quantity int
}

// Store is the single source of truth for the shopper's selection plus the
// visibility flag of the cart panel. All operations are total; there are
// no error conditions and no network calls.
type Store struct {
	mu       sync.RWMutex
	items    []Item
	open     bool
	hydrated bool
}

func New() *Store {
	return &Store{}
}

// SetFromServer replaces the items with the backend-held cart, or empties
// the store when cart is nil. The hydrated flag is set once and never
// reset. Backend items carry no product data, so they come in as
// reference-only entries.
func (s *Store) SetFromServer(cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
	if cart == nil {
		s.items = nil
		return
	}

	items := make([]Item, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, Item{
			Product:  domain.ProductReference(it.ProductID),
			Quantity: it.Quantity,
		})
	}
	s.items = items
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// AddItem increments the quantity when the product is already present,
// otherwise appends it with quantity 1. The cart panel opens as a side
// effect so the shopper sees the result.
func (s *Store) AddItem(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true
	for i := range s.items {
		if s.items[i].Product.ProductID() == p.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Item{
		Product:  domain.EmbeddedProduct(p),
		Quantity: 1,
	})
}

// RemoveItem drops the matching entry. Absent products are a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.Product.ProductID() == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear empties the items without touching the panel visibility.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities across all entries.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// TotalPrice sums price*quantity over entries with an embedded product.
// Reference-only entries contribute zero until they are hydrated.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, it := range s.items {
		if p, ok := it.Product.Embedded(); ok {
			total += p.Price * float64(it.Quantity)
		}
	}
	return total
}
