package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/truongnx/gearstore/internal/models"
)

// httpError maps domain sentinels onto HTTP statuses with a
// machine-readable kind. Anything unrecognized surfaces as a bare 500 so
// internals never leak.
func httpError(err error) *echo.HTTPError {
	var kind string
	var status int

	switch {
	case errors.Is(err, models.ErrValidation):
		kind, status = "validation", http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		kind, status = "not_found", http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		kind, status = "insufficient_stock", http.StatusConflict
	case errors.Is(err, models.ErrStockConflict):
		kind, status = "stock_conflict", http.StatusConflict
	case errors.Is(err, models.ErrConflict):
		kind, status = "conflict", http.StatusConflict
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return echo.NewHTTPError(status, map[string]string{
		"kind":    kind,
		"message": err.Error(),
	})
}
