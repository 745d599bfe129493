package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JMPenyaP/fixer-back-end/internal/logging"
	"github.com/JMPenyaP/fixer-back-end/internal/service"
	"github.com/JMPenyaP/fixer-back-end/internal/transport"
	"github.com/labstack/echo/v4"
)

type DashboardHTTP struct {
	Svc *service.MetricsService
}

func (h *DashboardHTTP) SalesByMonth(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.sales_by_month")

	var (
		sales []service.MonthlySales
		err   error
	)
	if raw := c.QueryParam("year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			l.Warn("sales_by_month_error", "status", 400, "reason", "year is not integer", "error", convErr)
			return echo.NewHTTPError(http.StatusBadRequest, "year is not integer")
		}
		sales, err = h.Svc.SalesByMonthOf(ctx, year)
	} else {
		sales, err = h.Svc.SalesByMonth(ctx)
	}
	if err != nil {
		return failure(l, "sales_by_month_error", "cannot compute sales by month", err)
	}

	l.Info("sales_by_month_success")
	return c.JSON(http.StatusOK, transport.NewSalesByMonthResponse(sales))
}

func (h *DashboardHTTP) OrdersByGender(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.orders_by_gender")

	res, err := h.Svc.OrdersByGender(ctx)
	if err != nil {
		return failure(l, "orders_by_gender_error", "cannot count orders by gender", err)
	}

	l.Info("orders_by_gender_success")
	return c.JSON(http.StatusOK, transport.NewOrdersByGenderResponse(res))
}

func (h *DashboardHTTP) OrdersInMonth(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.orders_in_month")

	orders, err := h.Svc.OrdersInMonth(ctx, c.Param("month"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			l.Warn("orders_in_month_error", "status", 400, "reason", "invalid month name", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid month name")
		}
		return failure(l, "orders_in_month_error", "cannot get orders for month", err)
	}

	l.Info("orders_in_month_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *DashboardHTTP) TopBuyers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.top_buyers")

	buyers, err := h.Svc.TopBuyers(ctx)
	if err != nil {
		return failure(l, "top_buyers_error", "cannot get top buyers", err)
	}

	l.Info("top_buyers_success", "count", len(buyers))
	return c.JSON(http.StatusOK, transport.NewBuyersResponse(buyers))
}

func (h *DashboardHTTP) TopSoldProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.top_sold_products")

	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		l.Warn("top_sold_products_error", "status", 400, "reason", "from and to are required")
		return echo.NewHTTPError(http.StatusBadRequest, "from and to are required")
	}

	products, err := h.Svc.TopSoldProducts(ctx, from, to)
	if err != nil {
		return failure(l, "top_sold_products_error", "cannot get top sold products", err)
	}

	l.Info("top_sold_products_success", "count", len(products))
	return c.JSON(http.StatusOK, transport.NewProductSalesResponse(products))
}

func (h *DashboardHTTP) Totals(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.totals")

	totals, err := h.Svc.Totals(ctx)
	if err != nil {
		return failure(l, "totals_error", "cannot count totals", err)
	}

	l.Info("totals_success")
	return c.JSON(http.StatusOK, transport.NewTotalsResponse(totals))
}
