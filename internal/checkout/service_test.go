package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csukav/Webshop/internal/domain"
	"github.com/csukav/Webshop/internal/orders/repository"
)

type mockOrderRepo struct {
	created   *domain.Order
	eventType string
	payload   []byte
	createErr error
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order, event string, payload []byte) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = order
	m.eventType = event
	m.payload = payload
	return nil
}

func (m *mockOrderRepo) GetOrderByID(context.Context, uuid.UUID) (*domain.Order, error) {
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) ListOrdersByUserID(context.Context, uuid.UUID) ([]*domain.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListOrders(context.Context, int) ([]*domain.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) UpdateOrderStatus(context.Context, uuid.UUID, domain.OrderStatus) error {
	return nil
}

func (m *mockOrderRepo) DeleteOrder(context.Context, uuid.UUID) error {
	return nil
}

func (m *mockOrderRepo) CountOrders(context.Context) (int, error) {
	return 0, nil
}

func (m *mockOrderRepo) RevenueByStatus(context.Context, domain.OrderStatus) (float64, error) {
	return 0, nil
}

type mockCartStore struct {
	cart     *domain.Cart
	getErr   error
	clearErr error
	cleared  bool
}

func (m *mockCartStore) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return &domain.Cart{UserID: userID}, nil
	}
	return m.cart, nil
}

func (m *mockCartStore) ClearCart(context.Context, string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

func filledCart(userID uuid.UUID) *domain.Cart {
	a := domain.Product{ID: uuid.New(), Name: "a", Price: 1000}
	b := domain.Product{ID: uuid.New(), Name: "b", Price: 500}
	c := &domain.Cart{UserID: userID.String()}
	c.AddItem(a)
	c.AddItem(a)
	c.AddItem(b)
	return c
}

func TestPlaceOrder_Success(t *testing.T) {
	userID := uuid.New()
	carts := &mockCartStore{cart: filledCart(userID)}
	orders := &mockOrderRepo{}
	svc := NewService(orders, carts)

	order, err := svc.PlaceOrder(context.Background(), userID, "Fő utca 1, Budapest")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 2500.0, order.Total)
	assert.Equal(t, "Fő utca 1, Budapest", order.ShippingAddress)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 1000.0, order.Items[0].UnitPrice)

	require.NotNil(t, orders.created)
	assert.Equal(t, "order_placed", orders.eventType)
	assert.True(t, carts.cleared)

	var ev struct {
		OrderID uuid.UUID `json:"order_id"`
		Total   float64   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(orders.payload, &ev))
	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, 2500.0, ev.Total)
}

func TestPlaceOrder_SnapshotPriceIsUsed(t *testing.T) {
	userID := uuid.New()
	cart := filledCart(userID)
	// simulate a price change after add-to-cart: the snapshot wins
	snapshot := cart.Items[0].Product.Price
	orders := &mockOrderRepo{}
	svc := NewService(orders, &mockCartStore{cart: cart})

	order, err := svc.PlaceOrder(context.Background(), userID, "address")
	require.NoError(t, err)
	assert.Equal(t, snapshot, order.Items[0].UnitPrice)
}

func TestPlaceOrder_EmptyAddressAbortsBeforeAnyWrite(t *testing.T) {
	userID := uuid.New()
	carts := &mockCartStore{cart: filledCart(userID)}
	orders := &mockOrderRepo{}
	svc := NewService(orders, carts)

	_, err := svc.PlaceOrder(context.Background(), userID, "   ")
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Nil(t, orders.created)
	assert.False(t, carts.cleared)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	userID := uuid.New()
	orders := &mockOrderRepo{}
	svc := NewService(orders, &mockCartStore{})

	_, err := svc.PlaceOrder(context.Background(), userID, "address")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, orders.created)
}

func TestPlaceOrder_RepoFailureLeavesCartIntact(t *testing.T) {
	userID := uuid.New()
	carts := &mockCartStore{cart: filledCart(userID)}
	orders := &mockOrderRepo{createErr: errors.New("db down")}
	svc := NewService(orders, carts)

	_, err := svc.PlaceOrder(context.Background(), userID, "address")
	assert.Error(t, err)
	assert.False(t, carts.cleared)
}

func TestPlaceOrder_ClearFailureStillReturnsOrder(t *testing.T) {
	userID := uuid.New()
	carts := &mockCartStore{cart: filledCart(userID), clearErr: errors.New("redis down")}
	orders := &mockOrderRepo{}
	svc := NewService(orders, carts)

	order, err := svc.PlaceOrder(context.Background(), userID, "address")
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.NotNil(t, orders.created)
}
