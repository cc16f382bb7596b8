package service

import (
	"context"
	"errors"

	"github.com/skvortsov/order-management/internal/clients"
	"github.com/skvortsov/order-management/internal/models"
	"github.com/skvortsov/order-management/internal/transport"
	"github.com/skvortsov/order-management/pkg/logging"
)

// priceOrder validates the user and every requested line against the remote
// services and computes the order total. Lines are checked sequentially in
// input order; the first failure aborts the rest.
func (svc *OrderService) priceOrder(ctx context.Context, req transport.CreateOrderRequest) (float64, []models.OrderItem, error) {
	l := logging.FromContext(ctx)

	if _, err := svc.Users.GetUser(ctx, req.UserID); err != nil {
		l.Warn("user service returned error", "user_id", req.UserID, "error", err)
		return 0, nil, upstream(ServiceUser, 0, err)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Products))

	for _, line := range req.Products {
		product, err := svc.Products.GetProduct(ctx, line.ProductID)
		if err != nil {
			l.Warn("product service returned error", "product_id", line.ProductID, "error", err)
			return 0, nil, upstream(ServiceProduct, line.ProductID, err)
		}

		if product.Stock < line.Quantity {
			return 0, nil, &InsufficientStockError{ProductID: line.ProductID, Name: product.Name}
		}

		// Price is snapshotted here; later catalog changes do not affect the order.
		total += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	return total, items, nil
}

func upstream(serviceName string, productID uint, err error) *UpstreamError {
	status := 0
	var se *clients.StatusError
	if errors.As(err, &se) {
		status = se.Status
	}
	return &UpstreamError{Service: serviceName, ProductID: productID, Status: status, Err: err}
}
