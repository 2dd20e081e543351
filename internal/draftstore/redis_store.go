package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Drafts that are never submitted expire instead of accumulating forever.
const defaultDraftTTL = 24 * time.Hour

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    defaultDraftTTL,
	}
}

func (s *RedisStore) Create(ctx context.Context, owner domain.OwnerRef, items []domain.OrderDraftItem, total float64, currency string) (string, error) {
	draft := &domain.OrderDraft{
		ID:          uuid.NewString(),
		Owner:       owner,
		Items:       items,
		TotalAmount: total,
		Currency:    currency,
		CreatedAt:   time.Now(),
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("marshal draft failed: %w", err)
	}

	if err := s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}
	return draft.ID, nil
}

func (s *RedisStore) Load(ctx context.Context, draftID string) (*domain.OrderDraft, error) {
	data, err := s.client.Get(ctx, draftKey(draftID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var draft domain.OrderDraft
	if err2 := json.Unmarshal(data, &draft); err2 != nil {
		return nil, fmt.Errorf("unmarshal draft failed: %w", err2)
	}
	return &draft, nil
}

func (s *RedisStore) Delete(ctx context.Context, draftID string) error {
	if err := s.client.Del(ctx, draftKey(draftID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func draftKey(draftID string) string {
	return fmt.Sprintf("draft:%s", draftID)
}
