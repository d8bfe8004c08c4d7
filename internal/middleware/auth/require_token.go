package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/service"
)

const (
	ctxUserKey  = "auth.user"
	ctxTokenKey = "auth.token"

	unauthenticated = "Unauthenticated."
)

type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// RequireToken admits requests carrying a bearer token that resolves to a
// user. The user and the raw token are stored on the echo context.
func RequireToken(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			raw := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticated)
			}

			user, err := r.Resolve(ctx, raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					l.Warn("auth_failed", "status", 401, "reason", "token rejected")
					return echo.NewHTTPError(http.StatusUnauthorized, unauthenticated)
				}
				l.Error("auth_failed", "status", 500, "reason", "cannot resolve token", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Server Error").SetInternal(err)
			}

			c.Set(ctxUserKey, user)
			c.Set(ctxTokenKey, raw)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l.With("user_id", user.ID))))
			return next(c)
		}
	}
}

func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func UserFrom(c echo.Context) *models.User {
	u, _ := c.Get(ctxUserKey).(*models.User)
	return u
}

func TokenFrom(c echo.Context) string {
	t, _ := c.Get(ctxTokenKey).(string)
	return t
}
