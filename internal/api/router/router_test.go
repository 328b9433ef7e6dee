package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/router"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/models"
)

type noProvider struct{}

func (noProvider) Search(context.Context, string, int) []models.BookSuggestion {
	return []models.BookSuggestion{}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var cfg config.Config
	cfg.Auth = config.Auth{JWTSecret: strings.Repeat("s", 32), AccessTTL: time.Minute, RefreshTTL: time.Hour, Issuer: "test"}
	cfg.Argon2 = config.Argon2{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	cfg.HTTP.MaxBodyBytes = 1 << 20
	cfg.HTTP.CORSOrigins = []string{"http://localhost:5173"}
	cfg.RateLimit = config.RateLimit{Enabled: true, Rate: 10, Burst: 20, LoginAttempts: 5, LoginWindow: time.Minute}

	return router.Router(router.Deps{Config: cfg, DB: db, Provider: noProvider{}, Log: zap.NewNop()})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newRouter(t), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"redis":"disabled"`)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestWritesNeedAuthentication(t *testing.T) {
	h := newRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/books"},
		{http.MethodPut, "/authors/1"},
		{http.MethodDelete, "/categories/1"},
		{http.MethodGet, "/collection"},
		{http.MethodGet, "/admin/users"},
		{http.MethodPost, "/admin/books/1/cover"},
	} {
		rec := serve(h, tc.method, tc.path)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestSearchRoutes(t *testing.T) {
	h := newRouter(t)

	require.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/search/books?query=ab").Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/search/books?query=dune").Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/search/suggest?query=a").Code)
	require.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/books/search/isbn").Code)
}

func TestCollectionCheckAllowsGuests(t *testing.T) {
	rec := serve(newRouter(t), http.MethodGet, "/collection/check?externalId=abc")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"in_collection":false`)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := serve(newRouter(t), http.MethodPatch, "/books/1")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
