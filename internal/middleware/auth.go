package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
	"github.com/ekoval/bookrental/internal/tokens"
)

const (
	userKey         = "current_user"
	userIDKey       = "user_id"
	refreshTokenKey = "refresh_token"
)

type Auth struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAccess verifies the access token and loads the caller's User
// row so downstream handlers have the bookstore scope at hand.
func (m *Auth) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, m.AccessSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		userID, err := tokens.UserID(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		user, err := m.Repo.FindUserByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authenticate first")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
		}

		c.Set(userKey, user)
		return next(c)
	}
}

// RequireRefresh verifies the refresh token's signature and expiry; the
// service still checks it against the stored hash afterwards.
func (m *Auth) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
		}

		claims, err := tokens.RefreshClaimsFromToken(tokenStr, m.RefreshSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		}

		userID, err := tokens.UserID(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		c.Set(userIDKey, userID)
		c.Set(refreshTokenKey, tokenStr)
		return next(c)
	}
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userKey).(*models.User); ok {
		return u
	}
	return nil
}

func RefreshContext(c echo.Context) (uint, string) {
	id, _ := c.Get(userIDKey).(uint)
	token, _ := c.Get(refreshTokenKey).(string)
	return id, token
}
