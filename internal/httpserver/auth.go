package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/events"
	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/middleware"
	"github.com/ekoval/bookrental/internal/service"
	"github.com/ekoval/bookrental/internal/tokens"
	"github.com/ekoval/bookrental/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer events.Publisher
}

func (h *AuthHTTP) publish(c echo.Context, eventType string, userID uint) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event := map[string]any{
		"type":    eventType,
		"user_id": userID,
	}
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func tokensJSON(pair *tokens.Pair) transport.TokensResponse {
	return transport.TokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.BookstoreID == 0 {
		l.Warn("signup_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and bookstore_id are required")
	}

	pair, err := h.Svc.Signup(ctx, req.Email, req.Password, req.BookstoreID)
	if err != nil {
		l.Warn("signup_failed", "error", err)
		return httpError(err)
	}

	claims, _ := tokens.RefreshClaimsFromToken(pair.RefreshToken, h.Svc.Issuer.RefreshSecret)
	if claims != nil {
		if id, err := tokens.UserID(claims.Subject); err == nil {
			h.publish(c, "user_registered", id)
		}
	}

	l.Info("signup_successful")
	return c.JSON(http.StatusCreated, tokensJSON(pair))
}

func (h *AuthHTTP) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signin")

	var req transport.SigninRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Signin(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("signin_failed", "error", err)
		return httpError(err)
	}

	l.Info("signin_successful")
	return c.JSON(http.StatusOK, tokensJSON(pair))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authenticate first")
	}

	if err := h.Svc.Logout(ctx, user.ID); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
	}

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	userID, refreshToken := middleware.RefreshContext(c)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.Svc.Refresh(ctx, userID, refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "error", err)
		return httpError(err)
	}

	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, tokensJSON(pair))
}
