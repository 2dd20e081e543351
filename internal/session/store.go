package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sessions correlate guest carts and orders across visits. The TTL slides
// on every GetOrCreate, so active shoppers never lose their session.
const sessionTTL = 30 * 24 * time.Hour

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    sessionTTL,
	}
}

// GetOrCreate returns the session id for a known token unchanged, or
// mints and stores a fresh one. Idempotent for valid tokens.
func (s *Store) GetOrCreate(ctx context.Context, token string) (string, error) {
	if token != "" {
		err := s.client.Get(ctx, sessionKey(token)).Err()
		if err == nil {
			if e2 := s.client.Expire(ctx, sessionKey(token), s.ttl).Err(); e2 != nil {
				return "", fmt.Errorf("redis expire failed: %w", e2)
			}
			return token, nil
		}
		if !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("redis get failed: %w", err)
		}
		// unknown token, fall through and mint a new one
	}

	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(sessionID), time.Now().Unix(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}
	return sessionID, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
