package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	Resolver       auth.Resolver
	Ready          func(ctx context.Context) error

	ServiceName string
	Version     string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"name": d.ServiceName, "version": d.Version})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := auth.RequireToken(d.Resolver)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, authMW)

	if d.CatalogHandler.Svc.SearchEnabled() {
		e.GET("/products/search", d.CatalogHandler.SearchProducts, authMW)
	}
	e.GET("/products", d.CatalogHandler.GetProducts, authMW)
	e.POST("/products", d.CatalogHandler.CreateProduct, authMW)
	e.GET("/products/:id", d.CatalogHandler.GetProduct, authMW)
	e.PUT("/products/:id", d.CatalogHandler.UpdateProduct, authMW)
	e.DELETE("/products/:id", d.CatalogHandler.DeleteProduct, authMW)

	e.RouteNotFound("/*", func(c echo.Context) error { return echo.ErrNotFound })
}
