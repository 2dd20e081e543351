package orders

import (
	"context"

	"github.com/fjod/go_storefront/internal/domain"
)

// MockRepository implements RepoInterface for testing
type MockRepository struct {
	CreatedOrder   *domain.Order // Captures the order passed to CreateOrder
	CreatedPayload []byte
	CreateErr      error
	StoredOrder    *domain.Order
	GetErr         error
	Events         []*OutboxEvent
	GetEventsErr   error
	ProcessedIDs   []int
	MarkErr        error
}

func (m *MockRepository) CreateOrder(_ context.Context, order *domain.Order, payload []byte) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedOrder = order
	m.CreatedPayload = payload
	return nil
}

func (m *MockRepository) GetOrder(_ context.Context, _ string) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.StoredOrder == nil {
		return nil, ErrOrderNotFound
	}
	return m.StoredOrder, nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*OutboxEvent, error) {
	if m.GetEventsErr != nil {
		return nil, m.GetEventsErr
	}
	if len(m.Events) > 0 {
		ev := []*OutboxEvent{m.Events[0]} // Return first event once
		m.Events = m.Events[1:]
		return ev, nil
	}
	return nil, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) RunMigrations(*Credentials) error {
	return nil
}
