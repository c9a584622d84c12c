package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/events"
	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/middleware"
	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/search"
	"github.com/ekoval/bookrental/internal/service"
	"github.com/ekoval/bookrental/internal/transport"
)

type BooksHTTP struct {
	Svc      *service.BookService
	ES       *elasticsearch.Client
	ESIndex  string
	Producer events.Publisher
}

func (h *BooksHTTP) publish(c echo.Context, eventType string, user *models.User, bookID uint) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event := map[string]any{
		"type":         eventType,
		"user_id":      user.ID,
		"book_id":      bookID,
		"bookstore_id": user.BookstoreID,
	}
	if err := h.Producer.PublishEvent(ctx, "rental_events", fmt.Sprint(bookID), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func bookIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

func (h *BooksHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_list")

	user := middleware.CurrentUser(c)
	books, err := h.Svc.ListBooks(ctx, user)
	if err != nil {
		l.Error("list_books_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list books")
	}

	return c.JSON(http.StatusOK, books)
}

// SearchBooks prefers the Elasticsearch index when one is configured
// and falls back to the store's substring search otherwise.
func (h *BooksHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_search")

	var req transport.SearchBooksRequest
	if err := c.Bind(&req); err != nil || req.Query == "" {
		l.Warn("search_books_error", "status", 400, "reason", "missing query")
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	user := middleware.CurrentUser(c)

	if h.ES != nil {
		books, err := search.Books(ctx, h.ES, h.ESIndex, req.Query, user.BookstoreID)
		if err == nil {
			return c.JSON(http.StatusOK, books)
		}
		l.Warn("es_search_failed", "error", err)
	}

	books, err := h.Svc.SearchBooks(ctx, user, req.Query)
	if err != nil {
		l.Error("search_books_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search books")
	}

	return c.JSON(http.StatusOK, books)
}

func (h *BooksHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_get")

	id, err := bookIDParam(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	book, err := h.Svc.GetBook(ctx, user, id)
	if err != nil {
		l.Warn("get_book_failed", "book_id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BooksHTTP) RentBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_rent")

	id, err := bookIDParam(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	book, err := h.Svc.RentBook(ctx, user, id)
	if err != nil {
		l.Warn("rent_book_failed", "book_id", id, "error", err)
		return httpError(err)
	}

	h.publish(c, "book_rented", user, id)
	return c.JSON(http.StatusOK, book)
}

func (h *BooksHTTP) ReturnBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_return")

	id, err := bookIDParam(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	book, err := h.Svc.ReturnBook(ctx, user, id)
	if err != nil {
		l.Warn("return_book_failed", "book_id", id, "error", err)
		return httpError(err)
	}

	h.publish(c, "book_returned", user, id)
	return c.JSON(http.StatusOK, book)
}

func (h *BooksHTTP) MyRentals(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rentals_list")

	user := middleware.CurrentUser(c)
	rentals, err := h.Svc.MyRentals(ctx, user)
	if err != nil {
		l.Error("list_rentals_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list rentals")
	}

	return c.JSON(http.StatusOK, rentals)
}
