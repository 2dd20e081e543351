package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
)

type Service struct {
	repo RepoInterface
}

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

// CreateOrder persists a new order for the given owner. The submitted
// total is the frozen quote captured at draft time; it is checked against
// the line items but never recomputed from current catalog prices.
func (s *Service) CreateOrder(
	ctx context.Context,
	owner domain.OwnerRef,
	items []domain.OrderDraftItem,
	totalAmount float64,
	currency string,
	shippingAddress domain.OrderAddress,
	clientOrderID string,
) (*domain.Order, error) {

	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if err := validate(items, totalAmount, currency, shippingAddress, clientOrderID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		Owner:           owner,
		Items:           items,
		TotalAmount:     totalAmount,
		Currency:        currency,
		ShippingAddress: shippingAddress,
		ClientOrderID:   clientOrderID,
		CreatedAt:       time.Now(),
	}

	payload, err := eventPayload(order)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, order, payload); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func validate(items []domain.OrderDraftItem, total float64, currency string, addr domain.OrderAddress, clientOrderID string) error {
	fields := addr.MissingFields()

	if len(currency) != 3 {
		fields = append(fields, "currency")
	}
	if clientOrderID == "" {
		fields = append(fields, "client_order_id")
	}

	sum := 0.0
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.UnitPrice < 0 {
			fields = append(fields, "items")
			break
		}
		sum += it.Subtotal()
	}
	// the frozen quote must match its own line items
	if math.Abs(sum-total) > 0.01 {
		fields = append(fields, "total_amount")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func eventPayload(order *domain.Order) ([]byte, error) {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"owner":        order.Owner,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
		"created_at":   order.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}
	return data, nil
}
