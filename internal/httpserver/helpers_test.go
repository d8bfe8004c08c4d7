package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/es"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/mykafka"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/testutil"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Tokens  *service.TokenService
	Catalog *service.CatalogService
}

func newTestEnv(t *testing.T, idx es.Indexer) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	r := repo.New(db)

	tokens := &service.TokenService{Repo: r, Secret: []byte("test-token-secret"), Events: mykafka.Nop{}}
	catalog := &service.CatalogService{Repo: r, Events: mykafka.Nop{}, Index: idx}

	e := New(logging.NewWithWriter(io.Discard, "error"), &Deps{
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Events: mykafka.Nop{}}, Tokens: tokens},
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		Resolver:       tokens,
		ServiceName:    "product_api",
		Version:        "test",
	})

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens, Catalog: catalog}
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(env.T, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) register(email string) string {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/register", map[string]string{
		"name": "John Doe", "email": email, "password": "password123",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
