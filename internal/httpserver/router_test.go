package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/testutil"
)

func TestFallbackAndMethodMismatch(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nowhere"},
		{http.MethodGet, "/products/1/extra"},
		{http.MethodPatch, "/products/1"},
		{http.MethodGet, "/register"},
		{http.MethodDelete, "/login"},
	} {
		rec := env.do(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
		assert.Empty(t, rec.Header().Get("Allow"))
	}
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"product_api","version":"test"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/products/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadyReportsStoreFailure(t *testing.T) {
	r := repo.New(testutil.NewDB(t))
	tokens := &service.TokenService{Repo: r, Secret: []byte("s")}
	e := New(logging.NewWithWriter(io.Discard, "error"), &Deps{
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r}, Tokens: tokens},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Resolver:       tokens,
		Ready:          func(context.Context) error { return errors.New("db down") },
	})

	env := &testEnv{T: t, E: e}
	rec := env.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
