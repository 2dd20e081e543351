package draftstore

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore keeps drafts in-process. Used by tests and by embedders that
// run the checkout core without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]entry
	ttl    time.Duration // zero means no expiry
}

type entry struct {
	draft     domain.OrderDraft
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]entry),
		ttl:    ttl,
	}
}

func (s *MemoryStore) Create(_ context.Context, owner domain.OwnerRef, items []domain.OrderDraftItem, total float64, currency string) (string, error) {
	draft := domain.OrderDraft{
		ID:          uuid.NewString(),
		Owner:       owner,
		Items:       append([]domain.OrderDraftItem(nil), items...),
		TotalAmount: total,
		Currency:    currency,
		CreatedAt:   time.Now(),
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = draft.CreatedAt.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = entry{draft: draft, expiresAt: expiresAt}
	return draft.ID, nil
}

func (s *MemoryStore) Load(_ context.Context, draftID string) (*domain.OrderDraft, error) {
	s.mu.RLock()
	e, ok := s.drafts[draftID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrDraftNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.drafts, draftID)
		s.mu.Unlock()
		return nil, ErrDraftNotFound
	}

	draft := e.draft
	draft.Items = append([]domain.OrderDraftItem(nil), e.draft.Items...)
	return &draft, nil
}

func (s *MemoryStore) Delete(_ context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftID)
	return nil
}
