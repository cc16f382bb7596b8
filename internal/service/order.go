package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skvortsov/order-management/internal/clients"
	"github.com/skvortsov/order-management/internal/events"
	"github.com/skvortsov/order-management/internal/models"
	"github.com/skvortsov/order-management/internal/repo"
	"github.com/skvortsov/order-management/internal/transport"
	"github.com/skvortsov/order-management/pkg/logging"
)

type UserDirectory interface {
	GetUser(ctx context.Context, id uint) (*clients.User, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, id uint) (*clients.Product, error)
	DecrementStock(ctx context.Context, id, quantity uint) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

type OrderService struct {
	Repo     *repo.GormRepo
	Users    UserDirectory
	Products ProductCatalog
	Events   EventPublisher // optional
}

func (svc *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id required", ErrValidation)
	}
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("%w: products required", ErrValidation)
	}
	for i := range req.Products {
		if req.Products[i].ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if req.Products[i].Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
	}

	total, items, err := svc.priceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	order, err := svc.Repo.CreateOrder(ctx, &models.Order{
		UserID:      req.UserID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		Items:       items,
	})
	if err != nil {
		return nil, err
	}

	// Stock decrements run after the local commit. A failure here leaves the
	// committed order in place; callers get an error and must verify by id.
	for _, item := range order.Items {
		if err := svc.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			logging.FromContext(ctx).Error("stock decrement failed", "order_id", order.ID, "product_id", item.ProductID, "error", err)
			return nil, &StockSyncError{ProductID: item.ProductID, Err: err}
		}
	}

	svc.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

func (svc *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (svc *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return svc.Repo.ListOrders(ctx)
}

func (svc *OrderService) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return svc.Repo.ListOrdersByUser(ctx, userID)
}

func (svc *OrderService) ListOrdersByProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	return svc.Repo.ListOrdersByProduct(ctx, productID)
}

func (svc *OrderService) ListCompletedOrders(ctx context.Context) ([]models.Order, error) {
	return svc.Repo.ListCompletedOrders(ctx)
}

// CompleteOrder transitions pending -> completed. Completing an order that is
// already completed succeeds without touching it; the bool reports that case.
func (svc *OrderService) CompleteOrder(ctx context.Context, id uint) (*models.Order, bool, error) {
	order, already, err := svc.Repo.MarkCompleted(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, false, err
	}

	if !already {
		svc.publish(ctx, events.TypeOrderCompleted, order)
	}
	return order, already, nil
}

func (svc *OrderService) Stats(ctx context.Context) (*repo.DashboardStats, error) {
	return svc.Repo.Stats(ctx)
}

func (svc *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if svc.Events == nil {
		return
	}

	evt := events.OrderEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		OccurredAt:  time.Now().UTC(),
	}

	key := strconv.FormatUint(uint64(order.ID), 10)
	if err := svc.Events.PublishEvent(ctx, key, evt); err != nil {
		logging.FromContext(ctx).Error("publish order event failed", "event", eventType, "order_id", order.ID, "error", err)
	}
}
