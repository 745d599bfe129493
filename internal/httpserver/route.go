package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/JMPenyaP/fixer-back-end/internal/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	DashboardHandler *DashboardHTTP
	Guard            *auth.Guard
	DB               Pinger
	Metrics          echo.HandlerFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics)
	}

	dashboard := e.Group("/api/v1/dashboard", d.Guard.RequireAdmin)
	dashboard.GET("/sales/monthly", d.DashboardHandler.SalesByMonth)
	dashboard.GET("/orders/gender", d.DashboardHandler.OrdersByGender)
	dashboard.GET("/orders/month/:month", d.DashboardHandler.OrdersInMonth)
	dashboard.GET("/users/top", d.DashboardHandler.TopBuyers)
	dashboard.GET("/products/top", d.DashboardHandler.TopSoldProducts)
	dashboard.GET("/totals", d.DashboardHandler.Totals)
}
