package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cartstore"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/draftstore"
)

// Orchestrator coordinates the checkout flow: snapshotting the cart into
// a draft on "order now", and driving per-draft Checkout state machines
// through address collection and order submission.
type Orchestrator struct {
	drafts   draftstore.Store
	orders   *OrderHandler
	carts    *CartHandler
	products *ProductHandler
	profiles *ProfileHandler
	local    *cartstore.Store // nil when no client-local cart is attached

	// sessions older than this are evicted; aligned with the draft TTL
	// so a session never outlives its draft.
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*Checkout
}

func NewOrchestrator(
	drafts draftstore.Store,
	orders *OrderHandler,
	carts *CartHandler,
	products *ProductHandler,
	profiles *ProfileHandler,
	local *cartstore.Store,
) *Orchestrator {
	return &Orchestrator{
		drafts:     drafts,
		orders:     orders,
		carts:      carts,
		products:   products,
		profiles:   profiles,
		local:      local,
		sessionTTL: 24 * time.Hour,
		sessions:   make(map[string]*Checkout),
	}
}

// OrderNow freezes the owner's backend cart into a new draft and returns
// the draft id for navigation into the checkout view. Prices are captured
// here and never recomputed afterwards.
func (o *Orchestrator) OrderNow(ctx context.Context, owner domain.OwnerRef) (string, error) {
	if err := owner.Validate(); err != nil {
		return "", err
	}

	cart, err := o.carts.getCart(ctx, owner)
	if err != nil {
		return "", fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	items, total, currency, err := o.buildSnapshot(ctx, cart.Items)
	if err != nil {
		return "", fmt.Errorf("failed to build cart snapshot: %w", err)
	}

	draftID, err := o.drafts.Create(ctx, owner, items, total, currency)
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return draftID, nil
}

// buildSnapshot fetches current catalog prices and freezes the line items
func (o *Orchestrator) buildSnapshot(ctx context.Context, cartItems []domain.CartItem) ([]domain.OrderDraftItem, float64, string, error) {
	items := make([]domain.OrderDraftItem, 0, len(cartItems))
	total := 0.0
	currency := ""

	for _, item := range cartItems {
		product, err := o.products.get(ctx, item.ProductID)
		if err != nil {
			return nil, 0, "", fmt.Errorf("failed to get product %s: %w", item.ProductID, err)
		}

		if currency == "" {
			currency = product.Currency
		} else if product.Currency != currency {
			return nil, 0, "", ErrMixedCurrency
		}

		items = append(items, domain.OrderDraftItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Currency:  product.Currency,
		})
		total += product.Price * float64(item.Quantity)
	}

	if currency == "" {
		currency = "USD"
	}
	return items, total, currency, nil
}

// Begin loads the draft behind draftID and returns its Checkout session,
// prefilled with the shopper's default saved address. A missing draft is
// terminal: the returned session is Failed and the shopper must restart
// checkout. Calling Begin again for a live draft returns the same session.
func (o *Orchestrator) Begin(ctx context.Context, draftID string, owner domain.OwnerRef) (*Checkout, error) {
	o.mu.Lock()
	o.evictExpiredLocked(time.Now())
	if c, ok := o.sessions[draftID]; ok {
		o.mu.Unlock()
		return c, nil
	}

	c := &Checkout{
		orch:      o,
		draftID:   draftID,
		owner:     owner,
		status:    domain.CheckoutStatusLoading,
		createdAt: time.Now(),
	}
	o.sessions[draftID] = c
	o.mu.Unlock()

	draft, err := o.drafts.Load(ctx, draftID)
	if err != nil {
		o.dropSession(draftID)
		if errors.Is(err, draftstore.ErrDraftNotFound) {
			c.setStatus(domain.CheckoutStatusFailed, "order draft not found, please restart checkout")
			return c, err
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	// a leaked draft id must not let another shopper submit this quote
	if draft.Owner != owner {
		o.dropSession(draftID)
		c.setStatus(domain.CheckoutStatusFailed, "order draft not found, please restart checkout")
		return c, draftstore.ErrDraftNotFound
	}

	c.mu.Lock()
	c.draft = draft
	c.mu.Unlock()

	if owner.UserID != "" {
		if saved, errPrefill := o.profiles.defaultAddress(ctx, owner.UserID); errPrefill == nil && saved != nil {
			c.mu.Lock()
			c.address = saved.Address
			c.mu.Unlock()
		}
	}

	c.setStatus(domain.CheckoutStatusReady, "")
	return c, nil
}

func (o *Orchestrator) dropSession(draftID string) {
	o.mu.Lock()
	delete(o.sessions, draftID)
	o.mu.Unlock()
}

// evictExpiredLocked removes sessions whose draft has expired anyway.
// Caller holds o.mu.
func (o *Orchestrator) evictExpiredLocked(now time.Time) {
	for id, c := range o.sessions {
		if now.Sub(c.createdAt) > o.sessionTTL {
			delete(o.sessions, id)
		}
	}
}

func (o *Orchestrator) finishCheckout(ctx context.Context, c *Checkout) {
	if o.local != nil {
		o.local.Clear()
	}

	// Best-effort: the backend cart clear never gates order completion.
	// If it fails here, the order-events consumer clears the cart later.
	go func() {
		if err := o.carts.clearCart(context.Background(), c.owner); err != nil {
			log.Printf("best-effort cart clear failed for %s: %v", c.owner.Key(), err)
		}
	}()

	if err := o.drafts.Delete(ctx, c.draftID); err != nil {
		log.Printf("failed to delete draft %s: %v", c.draftID, err)
	}

	o.dropSession(c.draftID)
}

// Checkout is one shopper's progress through the state machine for a
// single draft.
type Checkout struct {
	orch      *Orchestrator
	draftID   string
	owner     domain.OwnerRef
	createdAt time.Time

	mu      sync.Mutex
	status  domain.CheckoutStatus
	draft   *domain.OrderDraft
	address domain.OrderAddress
	lastErr string
	order   *domain.Order
}

func (c *Checkout) Status() domain.CheckoutStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Checkout) Draft() *domain.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Checkout) Address() domain.OrderAddress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

func (c *Checkout) Order() *domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// LastError is the message surfaced to the shopper after a rejected
// submission. Empty while nothing has gone wrong.
func (c *Checkout) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Checkout) setStatus(status domain.CheckoutStatus, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.lastErr = message
}

// SelectAddress replaces every address field atomically, e.g. when the
// shopper picks a different saved address. Only allowed at Ready.
func (c *Checkout) SelectAddress(addr domain.OrderAddress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != domain.CheckoutStatusReady {
		return IllegalTransitionError
	}
	c.address = addr
	return nil
}

// Submit validates the address locally and, if complete, places the order
// with the frozen draft total. On rejection the checkout returns to Ready
// with the draft and carts untouched; on success the draft is deleted and
// the carts are cleared exactly once.
func (c *Checkout) Submit(ctx context.Context, addr domain.OrderAddress) (*domain.Order, error) {
	c.mu.Lock()
	if c.status != domain.CheckoutStatusReady {
		c.mu.Unlock()
		return nil, IllegalTransitionError
	}

	if missing := addr.MissingFields(); len(missing) > 0 {
		// local short-circuit, no network call, state stays Ready
		c.mu.Unlock()
		return nil, &AddressValidationError{Fields: missing}
	}

	c.address = addr
	c.status = domain.CheckoutStatusPlacing
	draft := c.draft
	c.mu.Unlock()

	order, err := c.orch.orders.create(ctx, c.owner, draft, addr)

	c.mu.Lock()
	if err != nil {
		// rejected or unreachable backend: back to Ready, draft preserved
		c.status = domain.CheckoutStatusReady
		c.lastErr = err.Error()
		c.mu.Unlock()
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusComplete) {
		c.mu.Unlock()
		return nil, IllegalTransitionError
	}
	c.status = domain.CheckoutStatusComplete
	c.order = order
	c.lastErr = ""
	c.mu.Unlock()

	c.orch.finishCheckout(ctx, c)
	return order, nil
}

// EnrichedItem is a draft line item plus catalog display data. The frozen
// quantity and unit price always come from the draft.
type EnrichedItem struct {
	domain.OrderDraftItem
	ImageURL string `json:"image_url,omitempty"`
}

// EnrichedItems decorates the draft lines with image and current display
// name. Catalog failures are tolerated per item: the draft-captured name
// and price stand in.
func (c *Checkout) EnrichedItems(ctx context.Context) []EnrichedItem {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	if draft == nil {
		return nil
	}

	items := make([]EnrichedItem, 0, len(draft.Items))
	for _, item := range draft.Items {
		enriched := EnrichedItem{OrderDraftItem: item}
		product, err := c.orch.products.get(ctx, item.ProductID)
		if err != nil {
			log.Printf("enrichment skipped for product %s: %v", item.ProductID, err)
		} else {
			enriched.Name = product.Name
			enriched.ImageURL = product.ImageURL
		}
		items = append(items, enriched)
	}
	return items
}
