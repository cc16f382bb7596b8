package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/skvortsov/order-management/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

type DashboardStats struct {
	TotalOrders     int64          `json:"total_orders"`
	PendingOrders   int64          `json:"pending_orders"`
	CompletedOrders int64          `json:"completed_orders"`
	TotalRevenue    float64        `json:"total_revenue"`
	RecentOrders    []models.Order `json:"recent_orders"`
}

// CreateOrder inserts the order row and every item row in one transaction.
// Any insert failure rolls the whole order back.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	items := order.Items
	order.Items = nil

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).Preload("Items").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	q := r.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID)
	if err := q.Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByProduct returns orders having at least one item with the given
// product, each with its full item list attached.
func (r *GormRepo) ListOrdersByProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	sub := r.DB.Model(&models.OrderItem{}).Select("order_id").Where("product_id = ?", productID)

	orders := []models.Order{}
	q := r.DB.WithContext(ctx).Preload("Items").Where("id IN (?)", sub)
	if err := q.Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListCompletedOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	q := r.DB.WithContext(ctx).Preload("Items").Where("status = ?", models.OrderStatusCompleted)
	if err := q.Order("updated_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkCompleted transitions the order to completed. An already-completed order
// is reported via the bool and left untouched, updated_at included.
func (r *GormRepo) MarkCompleted(ctx context.Context, id uint) (*models.Order, bool, error) {
	var order models.Order
	already := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			return err
		}
		if order.Status == models.OrderStatusCompleted {
			already = true
			return nil
		}
		return tx.Model(&order).Update("status", models.OrderStatusCompleted).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &order, already, nil
}

func (r *GormRepo) Stats(ctx context.Context) (*DashboardStats, error) {
	// empty slice so the payload serializes as [] rather than null
	stats := DashboardStats{RecentOrders: []models.Order{}}
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Items").Order("created_at DESC").Limit(5).Find(&stats.RecentOrders).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
