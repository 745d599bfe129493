package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JMPenyaP/fixer-back-end/internal/service"
	"github.com/labstack/echo/v4"
)

// failure maps a service error to an HTTP error and logs it under event.
func failure(l *slog.Logger, event, reason string, err error) error {
	if errors.Is(err, service.ErrValidation) {
		l.Warn(event, "status", 400, "reason", "invalid input", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l.Error(event, "status", 500, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, reason)
}
