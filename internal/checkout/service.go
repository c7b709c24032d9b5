package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	cartservice "github.com/csukav/Webshop/internal/cart/service"
	"github.com/csukav/Webshop/internal/domain"
	"github.com/csukav/Webshop/internal/orders/repository"
)

var (
	ErrEmptyAddress = errors.New("shipping address is required")
	ErrEmptyCart    = errors.New("cart is empty")
)

const eventOrderPlaced = "order_placed"

// placedEvent is the outbox payload published after checkout.
type placedEvent struct {
	OrderID  uuid.UUID         `json:"order_id"`
	UserID   uuid.UUID         `json:"user_id"`
	Total    float64           `json:"total"`
	Items    []placedEventItem `json:"items"`
	PlacedAt time.Time         `json:"placed_at"`
}

type placedEventItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

type CartStore interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type Service struct {
	orders repository.OrderRepository
	carts  CartStore
}

func NewService(orders repository.OrderRepository, carts CartStore) *Service {
	return &Service{orders: orders, carts: carts}
}

// PlaceOrder converts the user's cart plus a shipping address into a
// persisted order with line items. Line items carry the unit price recorded
// in the cart snapshot, not a live re-read of the current product price.
// The order header, its items and the order_placed event are written in one
// transaction, so a failure leaves no partial order behind.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, address string) (*domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	c, err := s.carts.GetCart(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Total:           c.Total(),
		ShippingAddress: address,
	}
	for _, it := range c.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.Product.Price,
		})
	}

	payload, err := json.Marshal(newPlacedEvent(order))
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}

	if err := s.orders.CreateOrder(ctx, order, eventOrderPlaced, payload); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order is committed at this point. A failed cart clear leaves a
	// stale cart but never a broken order, so it is only logged.
	if errClear := s.carts.ClearCart(ctx, userID.String()); errClear != nil {
		log.Printf("clear cart after checkout failed for user %s: %v", userID, errClear)
	}

	return order, nil
}

func newPlacedEvent(order *domain.Order) placedEvent {
	ev := placedEvent{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Total:    order.Total,
		PlacedAt: time.Now(),
	}
	for _, it := range order.Items {
		ev.Items = append(ev.Items, placedEventItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return ev
}

var _ CartStore = (*cartservice.CartService)(nil)
