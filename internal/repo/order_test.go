package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skvortsov/order-management/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return &GormRepo{DB: db}
}

func pendingOrder(userID uint, items ...models.OrderItem) *models.Order {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return &models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		Items:       items,
	}
}

func TestCreateOrder_PersistsOrderWithItems(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	order, err := r.CreateOrder(ctx, pendingOrder(7,
		models.OrderItem{ProductID: 3, Quantity: 2, Price: 10},
		models.OrderItem{ProductID: 4, Quantity: 1, Price: 5},
	))
	require.NoError(t, err)
	require.NotZero(t, order.ID)

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, float64(25), got.TotalAmount)
	require.Len(t, got.Items, 2)
	assert.Equal(t, order.ID, got.Items[0].OrderID)
	assert.Equal(t, order.ID, got.Items[1].OrderID)
}

func TestCreateOrder_RollsBackOnItemFailure(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	// Second item violates the quantity check constraint, failing its insert
	// after the order row and the first item row already went in.
	_, err := r.CreateOrder(ctx, pendingOrder(7,
		models.OrderItem{ProductID: 3, Quantity: 2, Price: 10},
		models.OrderItem{ProductID: 4, Quantity: 0, Price: 5},
	))
	require.Error(t, err)

	var orders, items int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkCompleted_TransitionsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	order, err := r.CreateOrder(ctx, pendingOrder(7,
		models.OrderItem{ProductID: 3, Quantity: 1, Price: 10},
	))
	require.NoError(t, err)

	completed, already, err := r.MarkCompleted(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)

	first, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	again, already, err := r.MarkCompleted(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, models.OrderStatusCompleted, again.Status)

	second, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.Equal(first.UpdatedAt), "repeat completion must not touch updated_at")
}

func TestMarkCompleted_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, _, err := r.MarkCompleted(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrdersByProduct_FiltersByItemSet(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	withProduct3a, err := r.CreateOrder(ctx, pendingOrder(1,
		models.OrderItem{ProductID: 3, Quantity: 1, Price: 10},
		models.OrderItem{ProductID: 4, Quantity: 1, Price: 5},
	))
	require.NoError(t, err)

	_, err = r.CreateOrder(ctx, pendingOrder(2,
		models.OrderItem{ProductID: 5, Quantity: 1, Price: 7},
	))
	require.NoError(t, err)

	withProduct3b, err := r.CreateOrder(ctx, pendingOrder(3,
		models.OrderItem{ProductID: 3, Quantity: 4, Price: 10},
	))
	require.NoError(t, err)

	orders, err := r.ListOrdersByProduct(ctx, 3)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, withProduct3a.ID, orders[0].ID)
	assert.Equal(t, withProduct3b.ID, orders[1].ID)
	// full item list attached, not just the matching line
	assert.Len(t, orders[0].Items, 2)
	assert.Len(t, orders[1].Items, 1)
}

func TestListCompletedOrders_NewestFirst(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 3; i++ {
		order, err := r.CreateOrder(ctx, pendingOrder(uint(i+1),
			models.OrderItem{ProductID: 3, Quantity: 1, Price: 10},
		))
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	_, _, err := r.MarkCompleted(ctx, ids[0])
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, _, err = r.MarkCompleted(ctx, ids[2])
	require.NoError(t, err)

	orders, err := r.ListCompletedOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[0], orders[1].ID)
}

func TestStats_Aggregates(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.CreateOrder(ctx, pendingOrder(1,
		models.OrderItem{ProductID: 3, Quantity: 2, Price: 10},
	))
	require.NoError(t, err)

	_, err = r.CreateOrder(ctx, pendingOrder(2,
		models.OrderItem{ProductID: 4, Quantity: 1, Price: 5},
	))
	require.NoError(t, err)

	_, _, err = r.MarkCompleted(ctx, first.ID)
	require.NoError(t, err)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.Equal(t, float64(25), stats.TotalRevenue)
	assert.Len(t, stats.RecentOrders, 2)
}
