package draftstore

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var draftOwner = domain.SessionOwner("sess-123")

func TestMemoryStore_CreateLoadRoundTrip(t *testing.T) {
	sut := NewMemoryStore(0)
	ctx := context.Background()

	items := []domain.OrderDraftItem{
		{ProductID: "p1", Name: "mug", Quantity: 2, UnitPrice: 100, Currency: "TRY"},
		{ProductID: "p2", Name: "plate", Quantity: 1, UnitPrice: 40, Currency: "TRY"},
	}

	id, err := sut.Create(ctx, draftOwner, items, 240, "TRY")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	draft, err := sut.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, draft.ID)
	assert.Equal(t, draftOwner, draft.Owner)
	assert.Equal(t, items, draft.Items)
	assert.Equal(t, 240.0, draft.TotalAmount)
	assert.Equal(t, "TRY", draft.Currency)
	assert.False(t, draft.CreatedAt.IsZero())
}

func TestMemoryStore_IDsAreUnique(t *testing.T) {
	sut := NewMemoryStore(0)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := sut.Create(ctx, draftOwner, nil, 0, "TRY")
		require.NoError(t, err)
		require.False(t, seen[id], "draft id %s reused", id)
		seen[id] = true
	}
}

func TestMemoryStore_LoadUnknownID(t *testing.T) {
	sut := NewMemoryStore(0)

	draft, err := sut.Load(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Nil(t, draft)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	sut := NewMemoryStore(0)
	ctx := context.Background()

	id, err := sut.Create(ctx, draftOwner, []domain.OrderDraftItem{{ProductID: "p1", Quantity: 1}}, 10, "TRY")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, sut.Delete(ctx, id))
		_, errLoad := sut.Load(ctx, id)
		assert.ErrorIs(t, errLoad, ErrDraftNotFound)
	}
}

func TestMemoryStore_ExpiredDraftIsNotFound(t *testing.T) {
	sut := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	id, err := sut.Create(ctx, draftOwner, nil, 0, "TRY")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, errLoad := sut.Load(ctx, id)
		return errLoad != nil
	}, 200*time.Millisecond, 10*time.Millisecond, "draft did not expire")
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	sut := NewMemoryStore(0)
	ctx := context.Background()

	id, err := sut.Create(ctx, draftOwner, []domain.OrderDraftItem{{ProductID: "p1", Quantity: 1, UnitPrice: 5}}, 5, "TRY")
	require.NoError(t, err)

	first, err := sut.Load(ctx, id)
	require.NoError(t, err)
	first.Items[0].Quantity = 99

	second, err := sut.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Items[0].Quantity, "stored snapshot must stay frozen")
}
