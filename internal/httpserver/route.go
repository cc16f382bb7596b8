package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	OrderHandler *OrderHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	orders := e.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/status/completed", d.OrderHandler.ListCompletedOrders)
	orders.GET("/stats/dashboard", d.OrderHandler.Dashboard)
	orders.GET("/user/:userId", d.OrderHandler.ListOrdersByUser)
	orders.GET("/product/:productId", d.OrderHandler.ListOrdersByProduct)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/complete", d.OrderHandler.CompleteOrder)
}
