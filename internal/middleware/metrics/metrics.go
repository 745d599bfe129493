package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPMetrics struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	service  string
}

func New(serviceName string) *HTTPMetrics {
	m := &HTTPMetrics{
		registry: prometheus.NewRegistry(),
		service:  serviceName,
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),
	}
	m.registry.MustRegister(m.total, m.duration)
	return m
}

func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			m.total.WithLabelValues(m.service, c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(m.service, c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *HTTPMetrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
