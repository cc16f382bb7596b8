package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          uint        `gorm:"primaryKey"                  json:"id"`
	UserID      uint        `gorm:"index;not null"              json:"user_id"`
	TotalAmount float64     `gorm:"not null"                    json:"total_amount"`
	Status      string      `gorm:"not null;default:pending"    json:"status"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"          json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"`
	OrderID   uint      `gorm:"index;not null"              json:"order_id"`
	ProductID uint      `gorm:"not null"                    json:"product_id"`
	Quantity  uint      `gorm:"check:quantity > 0"          json:"quantity"`
	Price     float64   `gorm:"not null"                    json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
