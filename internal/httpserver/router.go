package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/middleware"
)

type Deps struct {
	Auth       *AuthHTTP
	Books      *BooksHTTP
	Bookstores *BookstoresHTTP
	AuthMw     *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/bookstores", d.Bookstores.ListBookstores)

	auth := e.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/signin", d.Auth.Signin)
	auth.POST("/refresh", d.Auth.Refresh, d.AuthMw.RequireRefresh)
	auth.POST("/logout", d.Auth.Logout, d.AuthMw.RequireAccess)

	private := e.Group("", d.AuthMw.RequireAccess)
	private.GET("/books", d.Books.ListBooks)
	private.GET("/books/search", d.Books.SearchBooks)
	private.GET("/books/:id", d.Books.GetBook)
	private.POST("/books/:id/rent", d.Books.RentBook)
	private.POST("/books/:id/return", d.Books.ReturnBook)
	private.GET("/rentals", d.Books.MyRentals)
}
