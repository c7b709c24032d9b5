package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/csukav/Webshop/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OutboxEvent is a pending integration event written in the same transaction
// as the order it describes.
type OutboxEvent struct {
	ID        int64
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OrderRepository interface {
	// CreateOrder writes the order header, its line items and an
	// order_placed outbox event in a single transaction.
	CreateOrder(ctx context.Context, order *domain.Order, event string, payload []byte) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	CountOrders(ctx context.Context) (int, error)
	RevenueByStatus(ctx context.Context, status domain.OrderStatus) (float64, error)
}

type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}
