package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/repo"
)

// BookstoresHTTP exposes the tenant list so signup callers can pick a
// bookstore id. Stores themselves are managed out-of-band.
type BookstoresHTTP struct {
	Repo *repo.GormRepo
}

func (h *BookstoresHTTP) ListBookstores(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bookstores_list")

	stores, err := h.Repo.ListBookstores(ctx)
	if err != nil {
		l.Error("list_bookstores_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list bookstores")
	}

	return c.JSON(http.StatusOK, stores)
}
