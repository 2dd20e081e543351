package carts

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  CartRepository
	cache CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo CartRepository, cache CartCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetCart(ctx context.Context, owner domain.OwnerRef) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(owner.Key(), func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, owner)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, owner)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				Owner:     owner,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), owner, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *Service) AddItem(ctx context.Context, owner domain.OwnerRef, item domain.CartItem) error {
	errAdd := s.repo.AddItem(ctx, owner, item)
	if errAdd != nil {
		log.Printf("repo add item error: %v", errAdd)
		return errAdd
	}

	s.invalidateCache(owner)
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, owner domain.OwnerRef, productID string, quantity int) error {
	errUpdate := s.repo.UpdateItemQuantity(ctx, owner, productID, quantity)
	if errUpdate != nil {
		log.Printf("repo update item quantity error: %v", errUpdate)
		return errUpdate
	}

	s.invalidateCache(owner)
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, owner domain.OwnerRef, productID string) error {
	errRemove := s.repo.RemoveItem(ctx, owner, productID)
	if errRemove != nil {
		log.Printf("repo remove item error: %v", errRemove)
		return errRemove
	}

	s.invalidateCache(owner)
	return nil
}

// ClearCart is idempotent: clearing an absent cart is a success, so the
// checkout's best-effort clear can be retried safely.
func (s *Service) ClearCart(ctx context.Context, owner domain.OwnerRef) error {
	errDelete := s.repo.DeleteCart(ctx, owner)
	if errDelete != nil && !errors.Is(errDelete, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}

	s.invalidateCache(owner)
	return nil
}

func (s *Service) invalidateCache(owner domain.OwnerRef) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, owner)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v", errInvalidate)
	}
}
