package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skvortsov/order-management/internal/service"
	"github.com/skvortsov/order-management/internal/transport"
	"github.com/skvortsov/order-management/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func paramUint(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return h.createOrderError(c, l, err)
	}

	l.Info("create_order_success", "order_id", order.ID, "total_amount", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) createOrderError(c echo.Context, l *slog.Logger, err error) error {
	var upstreamErr *service.UpstreamError
	var stockErr *service.InsufficientStockError

	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn("create_order_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.As(err, &upstreamErr):
		msg := "Invalid user"
		if upstreamErr.Service == service.ServiceProduct {
			msg = fmt.Sprintf("Invalid product with ID %d", upstreamErr.ProductID)
		}
		l.Warn("create_order_error", "status", 400, "service", upstreamErr.Service, "upstream_status", upstreamErr.Status)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   msg,
			"service": upstreamErr.Service,
			"status":  upstreamErr.Status,
		})

	case errors.As(err, &stockErr):
		l.Warn("create_order_error", "status", 400, "reason", "insufficient stock", "product_id", stockErr.ProductID)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("Insufficient stock for product %s", stockErr.Name),
		})

	default:
		// Persistence or stock-sync failure. For the latter the order is already
		// committed, so the caller has to verify by id.
		l.Error("create_order_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create order: " + err.Error(),
		})
	}
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrdersByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders_by_user")

	userID, err := paramUint(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	orders, err := h.Svc.ListOrdersByUser(ctx, userID)
	if err != nil {
		l.Error("list_orders_by_user_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListOrdersByProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders_by_product")

	productID, err := paramUint(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	orders, err := h.Svc.ListOrdersByProduct(ctx, productID)
	if err != nil {
		l.Error("list_orders_by_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListCompletedOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_completed_orders")

	orders, err := h.Svc.ListCompletedOrders(ctx)
	if err != nil {
		l.Error("list_completed_orders_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.complete_order")

	id, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, already, err := h.Svc.CompleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		l.Error("complete_order_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to complete order"})
	}

	if already {
		return c.JSON(http.StatusOK, echo.Map{"message": "Order is already completed", "order": order})
	}

	l.Info("complete_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order marked as completed successfully", "order": order})
}

func (h *OrderHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.dashboard")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, stats)
}
