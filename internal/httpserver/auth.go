package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/middleware/auth"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Tokens *service.TokenService
}

func authFailure(c echo.Context, title string, err error) error {
	msg := err.Error()
	if errors.Is(err, service.ErrInvalidCredentials) {
		msg = "Invalid credentials"
	}
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: title, Message: msg})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return authFailure(c, "Registration failed", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return authFailure(c, "Registration failed", err)
	}

	token, err := h.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("register_failed", "status", 400, "reason", "cannot issue token", "error", err)
		return authFailure(c, "Registration failed", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.TokenResponse{Token: token})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return authFailure(c, "Login failed", err)
	}

	user, err := h.Svc.Authenticate(ctx, req)
	if err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return authFailure(c, "Login failed", err)
	}

	token, err := h.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 400, "reason", "cannot issue token", "error", err)
		return authFailure(c, "Login failed", err)
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{Token: token})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Tokens.Revoke(ctx, auth.TokenFrom(c)); err != nil {
		l.Warn("logout_failed", "status", 400, "error", err)
		return authFailure(c, "Logout failed", err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}
