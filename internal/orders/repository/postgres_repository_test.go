package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/csukav/Webshop/internal/domain"
	"github.com/csukav/Webshop/internal/postgres"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &postgres.Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	db, err := postgres.Connect(creds)
	require.NoError(t, err)

	err = postgres.RunMigrations(db, "../../../migrations")
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return repo, cleanup
}

func insertProfile(t *testing.T, repo *Repository) uuid.UUID {
	id := uuid.New()
	_, err := repo.db.Exec(
		`INSERT INTO profiles (id, email, role, password_hash) VALUES ($1, $2, 'user', 'x')`,
		id, id.String()+"@example.com")
	require.NoError(t, err)
	return id
}

func testOrder(userID uuid.UUID) *domain.Order {
	return &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Total:           2500,
		ShippingAddress: "Fő utca 1, Budapest, 1011",
		Items: []domain.OrderItem{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 1000},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 500},
		},
	}
}

func TestCreateOrder_PersistsHeaderItemsAndOutbox(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)
	order := testOrder(userID)

	err := repo.CreateOrder(ctx, order, "order_placed", []byte(`{"order_id":"`+order.ID.String()+`"}`))
	require.NoError(t, err)

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, 2500.0, got.Total)
	assert.Len(t, got.Items, 2)

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "order_placed", events[0].EventType)
}

func TestCreateOrder_InvalidItemRollsBackHeader(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)

	// duplicate item primary key makes the second item insert fail, which
	// must roll back the header and the outbox row as well
	order := testOrder(userID)
	dup := uuid.New()
	order.Items[0].ID = dup
	order.Items[1].ID = dup

	err := repo.CreateOrder(ctx, order, "order_placed", []byte(`{}`))
	require.Error(t, err)

	_, err = repo.GetOrderByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpdateOrderStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)
	order := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, order, "order_placed", []byte(`{}`)))

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusShipped))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	err = repo.UpdateOrderStatus(ctx, uuid.New(), domain.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder_CascadesItems(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)
	order := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, order, "order_placed", []byte(`{}`)))

	require.NoError(t, repo.DeleteOrder(ctx, order.ID))

	_, err := repo.GetOrderByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var count int
	require.NoError(t, repo.db.QueryRow(
		`SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestListOrdersByUserID_NewestFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)
	otherID := insertProfile(t, repo)

	first := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, first, "order_placed", []byte(`{}`)))
	second := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, second, "order_placed", []byte(`{}`)))
	require.NoError(t, repo.CreateOrder(ctx, testOrder(otherID), "order_placed", []byte(`{}`)))

	orders, err := repo.ListOrdersByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, userID, o.UserID)
		assert.Len(t, o.Items, 2)
	}
}

func TestMarkEventAsProcessed(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)
	require.NoError(t, repo.CreateOrder(ctx, testOrder(userID), "order_placed", []byte(`{}`)))

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.MarkEventAsProcessed(ctx, events[0].ID))

	events, err = repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRevenueByStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := insertProfile(t, repo)

	delivered := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, delivered, "order_placed", []byte(`{}`)))
	require.NoError(t, repo.UpdateOrderStatus(ctx, delivered.ID, domain.OrderStatusDelivered))

	pending := testOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, pending, "order_placed", []byte(`{}`)))

	revenue, err := repo.RevenueByStatus(ctx, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, revenue)
}
