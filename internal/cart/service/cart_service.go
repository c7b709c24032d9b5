package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/csukav/Webshop/internal/cart/cache"
	"github.com/csukav/Webshop/internal/cart/repository"
	"github.com/csukav/Webshop/internal/domain"

	"github.com/google/uuid"
)

type CartService struct {
	repo     repository.CartRepository
	cache    cache.CartCache
	notifier *Notifier
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:     repo,
		cache:    cache,
		notifier: NewNotifier(),
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		c, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// fill the cache before the cart escapes to callers, so the
		// marshal can never observe a concurrent mutation
		if errSet := s.cache.Set(ctx, userID, c); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}

		return c, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	// Singleflight shares one result across concurrent callers. Each
	// caller gets its own copy; mutations must never write into a cart
	// another goroutine holds.
	return v.(*domain.Cart).Clone(), nil
}

// AddItem appends the product to the cart or bumps the quantity of an
// existing entry by one. The stored product is a snapshot taken now.
func (s *CartService) AddItem(ctx context.Context, userID string, product domain.Product) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart) {
		c.AddItem(product)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID uuid.UUID) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(c *domain.Cart) {
		c.RemoveItem(productID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}

	s.invalidateCache(userID)
	s.notifier.Notify(userID, Change{UserID: userID, ItemCount: 0, Total: 0})
	return nil
}

// Subscribe registers a listener for cart changes of the given user. The
// returned cancel func must be called when the listener is done.
func (s *CartService) Subscribe(userID string) (<-chan Change, func()) {
	return s.notifier.Subscribe(userID)
}

func (s *CartService) mutate(ctx context.Context, userID string, apply func(*domain.Cart)) (*domain.Cart, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply(c)

	if errUpsert := s.repo.UpsertCart(ctx, c); errUpsert != nil {
		log.Printf("repo upsert cart error: %v", errUpsert)
		return nil, errUpsert
	}

	// Write-through rather than invalidate: after the upsert the cache
	// holds the post-mutation state, never an older one.
	if errSet := s.cache.Set(ctx, userID, c); errSet != nil {
		log.Printf("cache set error: %v", errSet)
	}

	s.notifier.Notify(userID, Change{UserID: userID, ItemCount: c.ItemCount(), Total: c.Total()})
	return c, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v", errInvalidate)
	}
}
