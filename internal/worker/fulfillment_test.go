package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/repository"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(_ context.Context) error {
	t.rolledBack = true
	return nil
}
func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row       { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                              { return nil }

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	tx     *fakeTx
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order), tx: &fakeTx{}}
}

func (m *mockOrderRepo) CreateWithCartClear(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, _ uuid.UUID) ([]model.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) { return nil, nil }

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return m.tx, nil }

type mockProductRepo struct {
	stock      map[int64]int
	decrements map[int64]int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{stock: make(map[int64]int), decrements: make(map[int64]int)}
}

func (m *mockProductRepo) Create(_ context.Context, _ *model.Product) error { return nil }
func (m *mockProductRepo) GetByID(_ context.Context, _ int64) (*model.Product, error) {
	return nil, nil
}
func (m *mockProductRepo) ListActive(_ context.Context) ([]model.Product, error) { return nil, nil }
func (m *mockProductRepo) Search(_ context.Context, _ repository.ProductSearch) ([]model.Product, error) {
	return nil, nil
}
func (m *mockProductRepo) Update(_ context.Context, _ *model.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ int64) error          { return nil }

func (m *mockProductRepo) DecrementStock(_ context.Context, _ pgx.Tx, productID int64, quantity int) error {
	if m.stock[productID] < quantity {
		return fmt.Errorf("insufficient stock for product %d", productID)
	}
	m.stock[productID] -= quantity
	m.decrements[productID] += quantity
	return nil
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(_ uint64, _ bool) error { a.acked = true; return nil }
func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}
func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedOrder(orders *mockOrderRepo, status model.OrderStatus, items ...model.OrderItem) *model.Order {
	order := &model.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items:  items,
		Status: status,
	}
	orders.orders[order.ID] = order
	return order
}

func TestFulfillOrder_DecrementsEachItem(t *testing.T) {
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[1] = 10
	products.stock[2] = 10

	order := seedOrder(orders, model.OrderStatusOnProcess,
		model.OrderItem{ProductID: 1, Name: "a", Price: decimal.NewFromInt(5), Quantity: 2},
		model.OrderItem{ProductID: 2, Name: "b", Price: decimal.NewFromInt(3), Quantity: 1},
	)

	w := NewFulfillmentWorker(nil, orders, products, nil, discardLogger())
	require.NoError(t, w.fulfillOrder(context.Background(), order.ID))

	assert.Equal(t, 2, products.decrements[1])
	assert.Equal(t, 1, products.decrements[2])
	assert.True(t, orders.tx.committed)
}

func TestFulfillOrder_ShippedOrderStillDecrements(t *testing.T) {
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[7] = 5

	// Admin shipped the order before the queue caught up; its stock is still
	// owed.
	order := seedOrder(orders, model.OrderStatusShipped,
		model.OrderItem{ProductID: 7, Name: "a", Price: decimal.NewFromInt(5), Quantity: 3},
	)

	w := NewFulfillmentWorker(nil, orders, products, nil, discardLogger())
	require.NoError(t, w.fulfillOrder(context.Background(), order.ID))

	assert.Equal(t, 3, products.decrements[7])
	assert.Equal(t, 2, products.stock[7])
	assert.True(t, orders.tx.committed)
}

func TestFulfillOrder_CancelledOrderSkips(t *testing.T) {
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[7] = 5

	order := seedOrder(orders, model.OrderStatusCancelled,
		model.OrderItem{ProductID: 7, Name: "a", Price: decimal.NewFromInt(5), Quantity: 3},
	)

	w := NewFulfillmentWorker(nil, orders, products, nil, discardLogger())
	require.NoError(t, w.fulfillOrder(context.Background(), order.ID))

	assert.Empty(t, products.decrements)
	assert.Equal(t, 5, products.stock[7])
	assert.False(t, orders.tx.committed)
}

func TestFulfillOrder_InsufficientStock(t *testing.T) {
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[7] = 1

	order := seedOrder(orders, model.OrderStatusOnProcess,
		model.OrderItem{ProductID: 7, Name: "a", Price: decimal.NewFromInt(5), Quantity: 3},
	)

	w := NewFulfillmentWorker(nil, orders, products, nil, discardLogger())
	err := w.fulfillOrder(context.Background(), order.ID)
	require.Error(t, err)

	assert.False(t, orders.tx.committed)
	assert.Equal(t, 1, products.stock[7])
}

func TestFulfillOrder_UnknownOrder(t *testing.T) {
	w := NewFulfillmentWorker(nil, newMockOrderRepo(), newMockProductRepo(), nil, discardLogger())
	assert.Error(t, w.fulfillOrder(context.Background(), uuid.New()))
}

func TestProcessMessage_BadPayloadNacks(t *testing.T) {
	w := NewFulfillmentWorker(nil, newMockOrderRepo(), newMockProductRepo(), nil, discardLogger())

	ack := &fakeAcknowledger{}
	w.processMessage(context.Background(), amqp.Delivery{Body: []byte("not json"), Acknowledger: ack})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis-backed tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return client
}

func orderDelivery(t *testing.T, order *model.Order, ack amqp.Acknowledger) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: order.UserID})
	require.NoError(t, err)
	return amqp.Delivery{Body: body, Acknowledger: ack}
}

func TestProcessMessage_FulfillsAndMarks(t *testing.T) {
	redisClient := setupTestRedis(t)
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[1] = 10

	order := seedOrder(orders, model.OrderStatusOnProcess,
		model.OrderItem{ProductID: 1, Name: "a", Price: decimal.NewFromInt(5), Quantity: 2},
	)
	key := "order_fulfilled:" + order.ID.String()
	t.Cleanup(func() { redisClient.Del(context.Background(), key) })

	w := NewFulfillmentWorker(nil, orders, products, redisClient, discardLogger())
	ack := &fakeAcknowledger{}
	w.processMessage(context.Background(), orderDelivery(t, order, ack))

	assert.True(t, ack.acked)
	assert.Equal(t, 2, products.decrements[1])
	exists, err := redisClient.Exists(context.Background(), key).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)
}

func TestProcessMessage_SkipsAlreadyFulfilled(t *testing.T) {
	redisClient := setupTestRedis(t)
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[1] = 10

	order := seedOrder(orders, model.OrderStatusOnProcess,
		model.OrderItem{ProductID: 1, Name: "a", Price: decimal.NewFromInt(5), Quantity: 2},
	)
	key := "order_fulfilled:" + order.ID.String()
	require.NoError(t, redisClient.Set(context.Background(), key, "1", idempotencyTTL).Err())
	t.Cleanup(func() { redisClient.Del(context.Background(), key) })

	w := NewFulfillmentWorker(nil, orders, products, redisClient, discardLogger())
	ack := &fakeAcknowledger{}
	w.processMessage(context.Background(), orderDelivery(t, order, ack))

	// Redelivery of a fulfilled order must ack without touching stock.
	assert.True(t, ack.acked)
	assert.Empty(t, products.decrements)
	assert.Equal(t, 10, products.stock[1])
}

func TestProcessMessage_NacksToDLQOnFailure(t *testing.T) {
	redisClient := setupTestRedis(t)
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	products.stock[1] = 1

	order := seedOrder(orders, model.OrderStatusOnProcess,
		model.OrderItem{ProductID: 1, Name: "a", Price: decimal.NewFromInt(5), Quantity: 3},
	)
	key := "order_fulfilled:" + order.ID.String()
	t.Cleanup(func() { redisClient.Del(context.Background(), key) })

	w := NewFulfillmentWorker(nil, orders, products, redisClient, discardLogger())
	ack := &fakeAcknowledger{}
	w.processMessage(context.Background(), orderDelivery(t, order, ack))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue, "failed fulfillment goes to the DLQ, not back on the queue")
	exists, err := redisClient.Exists(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
