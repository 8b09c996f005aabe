package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloara/go-storefront-api/internal/model"
)

func seedUser(t *testing.T, repo UserRepository) *model.User {
	t.Helper()
	user := &model.User{
		UID:         "uid-" + uuid.NewString(),
		Email:       uuid.NewString() + "@example.com",
		DisplayName: "Test User",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, repo ProductRepository) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:         "Trail Runner",
		Description:  "lightweight trail shoe",
		Price:        decimal.NewFromInt(120),
		CategoryID:   1,
		CategoryName: "Shoes",
		Stock:        25,
		Brand:        "Veloara",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestUserRepository_CreateAndGetByUID(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "users")

	repo := NewUserRepository(testPool)
	user := seedUser(t, repo)
	require.NotEqual(t, uuid.Nil, user.ID)

	got, err := repo.GetByUID(context.Background(), user.UID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.False(t, got.IsAdmin)

	missing, err := repo.GetByUID(context.Background(), "no-such-uid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCartRepository_AddItemUpsert(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "cart_items", "products", "users")

	users := NewUserRepository(testPool)
	products := NewProductRepository(testPool)
	carts := NewCartRepository(testPool)

	user := seedUser(t, users)
	product := seedProduct(t, products)

	require.NoError(t, carts.AddItem(context.Background(), user.ID, product.ID, 2))
	require.NoError(t, carts.AddItem(context.Background(), user.ID, product.ID, 3))

	items, err := carts.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartRepository_ConcurrentAddItem(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "cart_items", "products", "users")

	users := NewUserRepository(testPool)
	products := NewProductRepository(testPool)
	carts := NewCartRepository(testPool)

	user := seedUser(t, users)
	product := seedProduct(t, products)

	const writers = 10
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, carts.AddItem(context.Background(), user.ID, product.ID, 1))
		}()
	}
	wg.Wait()

	items, err := carts.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, writers, items[0].Quantity)
}

func TestCartRepository_UpdateAndRemove(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "cart_items", "products", "users")

	users := NewUserRepository(testPool)
	products := NewProductRepository(testPool)
	carts := NewCartRepository(testPool)

	user := seedUser(t, users)
	product := seedProduct(t, products)

	require.NoError(t, carts.AddItem(context.Background(), user.ID, product.ID, 2))
	require.NoError(t, carts.UpdateQuantity(context.Background(), user.ID, product.ID, 7))

	items, err := carts.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)

	err = carts.UpdateQuantity(context.Background(), user.ID, product.ID+999, 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, carts.RemoveItem(context.Background(), user.ID, product.ID))
	err = carts.RemoveItem(context.Background(), user.ID, product.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	items, err = carts.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistRepository_IdempotentAdd(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "wishlist_items", "products", "users")

	users := NewUserRepository(testPool)
	products := NewProductRepository(testPool)
	wishlists := NewWishlistRepository(testPool)

	user := seedUser(t, users)
	product := seedProduct(t, products)

	require.NoError(t, wishlists.AddItem(context.Background(), user.ID, product.ID))
	require.NoError(t, wishlists.AddItem(context.Background(), user.ID, product.ID))

	items, err := wishlists.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)

	require.NoError(t, wishlists.Clear(context.Background(), user.ID))
	items, err = wishlists.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepository_CreateWithCartClear(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "order_items", "orders", "cart_items", "products", "users")

	users := NewUserRepository(testPool)
	products := NewProductRepository(testPool)
	carts := NewCartRepository(testPool)
	orders := NewOrderRepository(testPool)

	user := seedUser(t, users)
	product := seedProduct(t, products)
	require.NoError(t, carts.AddItem(context.Background(), user.ID, product.ID, 2))

	order := &model.Order{
		UserID: user.ID,
		Items: []model.OrderItem{
			{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 2, Image: product.Image},
		},
		TotalAmount: decimal.NewFromInt(240),
		ShippingAddress: model.ShippingAddress{
			FullName:     "Test User",
			Phone:        "9999999999",
			AddressLine1: "12 Harbor Lane",
			City:         "Pune",
			State:        "MH",
			Pincode:      "411001",
		},
		Status: model.OrderStatusOnProcess,
	}
	require.NoError(t, orders.CreateWithCartClear(context.Background(), order))
	require.NotEqual(t, uuid.Nil, order.ID)

	items, err := carts.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "checkout should clear the cart in the same transaction")

	got, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.OrderStatusOnProcess, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, product.ID, got.Items[0].ProductID)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, "Pune", got.ShippingAddress.City)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "order_items", "orders", "cart_items", "products", "users")

	users := NewUserRepository(testPool)
	orders := NewOrderRepository(testPool)

	user := seedUser(t, users)
	order := &model.Order{
		UserID:      user.ID,
		Items:       []model.OrderItem{{ProductID: 1, Name: "x", Price: decimal.NewFromInt(10), Quantity: 1}},
		TotalAmount: decimal.NewFromInt(10),
		Status:      model.OrderStatusOnProcess,
	}
	require.NoError(t, orders.CreateWithCartClear(context.Background(), order))

	require.NoError(t, orders.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped))
	got, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, got.Status)

	err = orders.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusShipped)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAddressRepository_Ownership(t *testing.T) {
	if testPool == nil {
		t.Skip("no test database")
	}
	cleanupTable(t, "addresses", "users")

	users := NewUserRepository(testPool)
	addresses := NewAddressRepository(testPool)

	owner := seedUser(t, users)
	other := seedUser(t, users)

	address := &model.Address{
		UserID:       owner.ID,
		FullName:     "Test User",
		Phone:        "9999999999",
		AddressLine1: "12 Harbor Lane",
		City:         "Pune",
		State:        "MH",
		Pincode:      "411001",
	}
	require.NoError(t, addresses.Create(context.Background(), address))

	mine, err := addresses.ListByUserID(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := addresses.ListByUserID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	err = addresses.Delete(context.Background(), other.ID, address.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows, "another user must not be able to delete the address")

	require.NoError(t, addresses.Delete(context.Background(), owner.ID, address.ID))
}
