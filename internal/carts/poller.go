package carts

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

// messageReader is the part of kafka.Reader the poller needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller consumes order-created events and clears the owning cart. It is
// the recovery path for the checkout's best-effort direct clear: even if
// that call failed, the cart is emptied once the event arrives.
type Poller struct {
	service *Service
	reader  messageReader
}

func NewPoller(service *Service, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "carts-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{service, reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.readMessageAndClearCart(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

type orderCreatedEvent struct {
	OrderID string          `json:"order_id"`
	Owner   domain.OwnerRef `json:"owner"`
}

func (p *Poller) readMessageAndClearCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var event orderCreatedEvent
	if errUnMarshal := json.Unmarshal(m.Value, &event); errUnMarshal != nil {
		log.Printf("error parsing message: %v", errUnMarshal)
		return
	}
	if event.Owner.Validate() != nil {
		log.Printf("missing or invalid owner in event for order %s", event.OrderID)
		return
	}

	if errClear := p.service.ClearCart(ctx, event.Owner); errClear != nil {
		log.Printf("failed to clear cart for %s: %v", event.Owner.Key(), errClear)
	}
}
