package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
	"github.com/Skotchmaster/product_api/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

var filterParams = []string{"search", "price_min", "price_max"}

func productID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func failure(c echo.Context, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return echo.ErrNotFound
	}
	return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: err.Error()})
}

func parseFilter(q url.Values) transport.ProductFilter {
	f := transport.ProductFilter{Search: q.Get("search")}
	if v, ok := transport.ParseDecimal(q.Get("price_min")); ok {
		f.PriceMin = &v
	}
	if v, ok := transport.ParseDecimal(q.Get("price_max")); ok {
		f.PriceMax = &v
	}
	return f
}

func requestPath(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := c.QueryParams()
	page := util.ParseIntDefault(q.Get("page"), 1)

	res, err := h.Svc.List(ctx, parseFilter(q), page)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return failure(c, err)
	}

	keep := url.Values{}
	for _, k := range filterParams {
		if q.Has(k) {
			keep[k] = q[k]
		}
	}

	l.Info("get_products_success", "total", res.Total, "page", res.Page)
	return c.JSON(http.StatusOK, transport.NewPage(res.Items, res.Total, res.Page, res.PerPage, res.LastPage, requestPath(c), keep))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, ok := productID(c)
	if !ok {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not a positive integer", "id", c.Param("id"))
		return echo.ErrNotFound
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product with this id dont exist", "error", err)
		} else {
			l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		}
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 500, "reason", "invalid body", "error", err)
		return failure(c, err)
	}

	prod, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Warn("product_create_error", "status", 500, "error", err)
		return failure(c, err)
	}

	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, ok := productID(c)
	if !ok {
		l.Warn("product_update_error", "status", 404, "reason", "id is not a positive integer", "id", c.Param("id"))
		return echo.ErrNotFound
	}

	var req transport.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 500, "reason", "invalid body", "error", err)
		return failure(c, err)
	}

	prod, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		l.Warn("product_update_error", "error", err)
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, ok := productID(c)
	if !ok {
		l.Warn("product_delete_error", "status", 404, "reason", "id is not a positive integer", "id", c.Param("id"))
		return echo.ErrNotFound
	}

	prod, err := h.Svc.Delete(ctx, id)
	if err != nil {
		l.Warn("product_delete_error", "error", err)
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "The q field is required."})
	}
	page := util.ClampPage(util.ParseIntDefault(c.QueryParam("page"), 1), util.PageSize)

	res, err := h.Svc.Search(ctx, q, page)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{
		Query: q,
		Page:  page,
		Size:  util.PageSize,
		Total: res.Total,
		Hits:  res.Hits,
	})
}

