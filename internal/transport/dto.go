package transport

type CreateOrderProduct struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID   uint                 `json:"user_id"`
	Products []CreateOrderProduct `json:"products"`
}
