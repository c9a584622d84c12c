package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/service"
)

// httpError keeps the status mapping in one place: conflicts and
// business-rule violations are 409, bad credentials 401, unknown books
// 404, everything else 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrAuthentication):
		return echo.NewHTTPError(http.StatusUnauthorized, "access denied")
	case errors.Is(err, service.ErrBookNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	case errors.Is(err, service.ErrUnavailable):
		return echo.NewHTTPError(http.StatusConflict, "book not available")
	case errors.Is(err, service.ErrAlreadyRented):
		return echo.NewHTTPError(http.StatusConflict, "book already rented")
	case errors.Is(err, service.ErrNoActiveRental):
		return echo.NewHTTPError(http.StatusConflict, "no active rental for this book")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
