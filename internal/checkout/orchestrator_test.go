package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/internal/cartstore"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/draftstore"
)

var (
	testOwner = domain.SessionOwner("sess-123")

	testAddress = domain.OrderAddress{
		FullName:   "Ayşe Yılmaz",
		Line1:      "Bağdat Cad. 42",
		City:       "Istanbul",
		PostalCode: "34710",
		Country:    "TR",
	}
)

type testEnv struct {
	orch     *Orchestrator
	drafts   *draftstore.MemoryStore
	local    *cartstore.Store
	orders   *mockOrderService
	carts    *mockCartService
	products *mockProductService
	profiles *mockProfileService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		drafts: draftstore.NewMemoryStore(time.Hour),
		local:  cartstore.New(),
		orders: &mockOrderService{},
		carts: &mockCartService{
			cart: &domain.Cart{
				Owner: testOwner,
				Items: []domain.CartItem{{ProductID: "p1", Quantity: 2}},
			},
			cleared: make(chan domain.OwnerRef, 1),
		},
		products: &mockProductService{
			products: map[string]*domain.Product{
				"p1": {ID: "p1", Name: "Ceramic Mug", Price: 100.0, Currency: "TRY", ImageURL: "/img/p1.jpg"},
			},
		},
		profiles: &mockProfileService{err: errors.New("no saved addresses")},
	}

	timeout := 2 * time.Second
	env.orch = NewOrchestrator(
		env.drafts,
		NewOrderHandler(env.orders, timeout),
		NewCartHandler(env.carts, timeout),
		NewProductHandler(env.products, timeout),
		NewProfileHandler(env.profiles, timeout),
		env.local,
	)
	return env
}

func TestOrderNow_FreezesCartIntoDraft(t *testing.T) {
	env := newTestEnv()

	draftID, err := env.orch.OrderNow(context.Background(), testOwner)
	require.NoError(t, err)
	require.NotEmpty(t, draftID)

	draft, err := env.drafts.Load(context.Background(), draftID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, draft.TotalAmount)
	assert.Equal(t, "TRY", draft.Currency)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "Ceramic Mug", draft.Items[0].Name)
	assert.Equal(t, 100.0, draft.Items[0].UnitPrice)
	assert.Equal(t, 2, draft.Items[0].Quantity)
}

func TestOrderNow_EmptyCart(t *testing.T) {
	env := newTestEnv()
	env.carts.cart = &domain.Cart{Owner: testOwner}

	_, err := env.orch.OrderNow(context.Background(), testOwner)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderNow_MixedCurrencyCart(t *testing.T) {
	env := newTestEnv()
	env.products.products["p2"] = &domain.Product{ID: "p2", Name: "Poster", Price: 15.0, Currency: "USD"}
	env.carts.cart.Items = append(env.carts.cart.Items, domain.CartItem{ProductID: "p2", Quantity: 1})

	_, err := env.orch.OrderNow(context.Background(), testOwner)
	assert.ErrorIs(t, err, ErrMixedCurrency)
}

func TestOrderNow_InvalidOwner(t *testing.T) {
	env := newTestEnv()

	_, err := env.orch.OrderNow(context.Background(), domain.OwnerRef{})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestBegin_MissingDraftIsTerminal(t *testing.T) {
	env := newTestEnv()

	c, err := env.orch.Begin(context.Background(), "nonexistent-id", testOwner)
	assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)
	require.NotNil(t, c)
	assert.Equal(t, domain.CheckoutStatusFailed, c.Status())
	assert.NotEmpty(t, c.LastError())

	// dead end, no order attempt can have happened
	assert.Equal(t, 0, env.orders.calls())

	// a repeated Begin answers the same way without retaining anything
	again, err := env.orch.Begin(context.Background(), "nonexistent-id", testOwner)
	assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)
	assert.Equal(t, domain.CheckoutStatusFailed, again.Status())
	assert.Equal(t, 0, sessionCount(env.orch))
}

func TestBegin_BogusIDsDoNotAccumulateSessions(t *testing.T) {
	env := newTestEnv()

	for i := 0; i < 50; i++ {
		_, err := env.orch.Begin(context.Background(), fmt.Sprintf("bogus-%d", i), testOwner)
		assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)
	}

	assert.Equal(t, 0, sessionCount(env.orch))
}

func TestBegin_StaleSessionsAreEvicted(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)
	require.Equal(t, 1, sessionCount(env.orch))

	// age the session past the draft lifetime
	c.createdAt = time.Now().Add(-env.orch.sessionTTL - time.Minute)

	_, _ = env.orch.Begin(context.Background(), "bogus-id", testOwner)
	assert.Equal(t, 0, sessionCount(env.orch))
}

func TestBegin_ForeignOwnerCannotLoadDraft(t *testing.T) {
	env := newTestEnv()

	draftID, err := env.orch.OrderNow(context.Background(), testOwner)
	require.NoError(t, err)

	// another shopper holding a leaked draft id gets a dead end
	stranger := domain.SessionOwner("sess-other")
	c, err := env.orch.Begin(context.Background(), draftID, stranger)
	assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)
	assert.Equal(t, domain.CheckoutStatusFailed, c.Status())
	assert.Equal(t, 0, sessionCount(env.orch))

	// the draft's creator is unaffected
	mine, err := env.orch.Begin(context.Background(), draftID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusReady, mine.Status())
}

func sessionCount(o *Orchestrator) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}

func TestBegin_PrefillsDefaultAddress(t *testing.T) {
	env := newTestEnv()
	env.profiles.err = nil
	env.profiles.saved = &domain.SavedAddress{
		ID:        "addr-1",
		UserID:    "u1",
		Address:   testAddress,
		IsDefault: true,
	}

	user := domain.UserOwner("u1")
	draftID, err := env.orch.OrderNow(context.Background(), user)
	require.NoError(t, err)

	c, err := env.orch.Begin(context.Background(), draftID, user)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusReady, c.Status())
	assert.Equal(t, testAddress, c.Address())
}

func TestBegin_AnonymousSkipsPrefill(t *testing.T) {
	env := newTestEnv()

	draftID, err := env.orch.OrderNow(context.Background(), testOwner)
	require.NoError(t, err)

	c, err := env.orch.Begin(context.Background(), draftID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusReady, c.Status())
	assert.Equal(t, domain.OrderAddress{}, c.Address())
}

func TestSubmit_MissingCityNeverCallsOrders(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)

	addr := testAddress
	addr.City = ""

	_, err := c.Submit(context.Background(), addr)

	var validationErr *AddressValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"city"}, validationErr.Fields)
	assert.Equal(t, domain.CheckoutStatusReady, c.Status())
	assert.Equal(t, 0, env.orders.calls())
}

func TestSubmit_RejectionReturnsToReady(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)
	env.orders.err = errors.New("payment declined")

	_, err := c.Submit(context.Background(), testAddress)
	require.Error(t, err)
	assert.Equal(t, domain.CheckoutStatusReady, c.Status())
	assert.Contains(t, c.LastError(), "payment declined")

	// the draft survives a rejection, so the shopper can retry
	draft, err := env.drafts.Load(context.Background(), c.draftID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, draft.TotalAmount)
	assert.Equal(t, 0, env.carts.clears())

	env.orders.err = nil
	order, err := c.Submit(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusComplete, c.Status())
	assert.Empty(t, c.LastError())
	assert.Equal(t, 200.0, order.TotalAmount)
}

func TestSubmit_SuccessRunsSideEffectsOnce(t *testing.T) {
	env := newTestEnv()
	env.local.AddItem(domain.Product{ID: "p1", Name: "Ceramic Mug", Price: 100.0, Currency: "TRY"})
	c := beginReadyCheckout(t, env)

	order, err := c.Submit(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 200.0, order.TotalAmount)
	assert.Equal(t, "TRY", order.Currency)
	assert.Equal(t, c.draftID, order.ClientOrderID)
	assert.Equal(t, domain.CheckoutStatusComplete, c.Status())
	assert.Same(t, order, c.Order())

	// local cart emptied synchronously
	assert.Equal(t, 0, env.local.ItemCount())

	// backend clear happens off the critical path
	select {
	case cleared := <-env.carts.cleared:
		assert.Equal(t, testOwner, cleared)
	case <-time.After(time.Second):
		t.Fatal("backend cart clear was not attempted")
	}

	// the draft is gone
	_, err = env.drafts.Load(context.Background(), c.draftID)
	assert.ErrorIs(t, err, draftstore.ErrDraftNotFound)

	// resubmitting a completed checkout is rejected without a new order
	_, err = c.Submit(context.Background(), testAddress)
	assert.ErrorIs(t, err, IllegalTransitionError)
	assert.Equal(t, 1, env.orders.calls())
}

func TestSubmit_BackendClearFailureDoesNotBlockCompletion(t *testing.T) {
	env := newTestEnv()
	env.carts.clearErr = errors.New("cart service down")
	c := beginReadyCheckout(t, env)

	order, err := c.Submit(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.CheckoutStatusComplete, c.Status())

	select {
	case <-env.carts.cleared:
	case <-time.After(time.Second):
		t.Fatal("backend cart clear was not attempted")
	}
}

func TestSelectAddress(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)

	require.NoError(t, c.SelectAddress(testAddress))
	assert.Equal(t, testAddress, c.Address())

	other := testAddress
	other.Line1 = "Another Street 7"
	other.Line2 = ""
	require.NoError(t, c.SelectAddress(other))
	assert.Equal(t, other, c.Address())

	_, err := c.Submit(context.Background(), testAddress)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SelectAddress(testAddress), IllegalTransitionError)
}

func TestEnrichedItems(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)

	items := c.EnrichedItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "Ceramic Mug", items[0].Name)
	assert.Equal(t, "/img/p1.jpg", items[0].ImageURL)
	assert.Equal(t, 100.0, items[0].UnitPrice)
}

func TestEnrichedItems_FallsBackOnCatalogFailure(t *testing.T) {
	env := newTestEnv()
	c := beginReadyCheckout(t, env)
	env.products.setErr(errors.New("catalog unavailable"))

	items := c.EnrichedItems(context.Background())
	require.Len(t, items, 1)
	// draft-captured data stands in when the catalog is down
	assert.Equal(t, "Ceramic Mug", items[0].Name)
	assert.Empty(t, items[0].ImageURL)
	assert.Equal(t, 100.0, items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)
}

func beginReadyCheckout(t *testing.T, env *testEnv) *Checkout {
	t.Helper()

	draftID, err := env.orch.OrderNow(context.Background(), testOwner)
	require.NoError(t, err)

	c, err := env.orch.Begin(context.Background(), draftID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.CheckoutStatusReady, c.Status())
	return c
}
