package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/storefront/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		BaseURL:        "http://shop.test",
		TrustedProxies: []string{"127.0.0.0/8"},
		Auth: config.AuthConfig{
			SecretKey:         "app-test-secret",
			CookieExpiryHours: 1,
			ResetCodeTTL:      20 * time.Minute,
			CookieSameSite:    "lax",
		},
		RateLimit: config.RateLimitConfig{Auth: 10, Window: time.Minute},
	}
}

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	a, err := New(testConfig(), db, rdb)
	require.NoError(t, err)
	require.NoError(t, a.RegisterRoutes())
	return a, mock, mr
}

func serve(a *App, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestNew_RejectsBadProxyCIDR(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []string{"not-a-cidr"}
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	a, mock, mr := newTestApp(t)

	mock.ExpectPing()
	rec, body := serve(a, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	mock.ExpectPing()
	mr.Close()
	rec, body = serve(a, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", body["redis"])
	assert.Equal(t, "ok", body["mariadb"])
}

func TestRoutes_RequireSession(t *testing.T) {
	a, _, _ := newTestApp(t)

	for _, path := range []string{"/api/v1/userdashboard", "/api/v1/wishlist", "/api/v1/cart"} {
		rec, body := serve(a, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, false, body["success"], path)
		assert.Equal(t, "auth_required", body["error"], path)
	}
}

func TestRoutes_UnknownPath(t *testing.T) {
	a, _, _ := newTestApp(t)

	rec, body := serve(a, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])
}

func TestMiddleware_CORSAndHeaders(t *testing.T) {
	a, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logout", nil)
	req.Header.Set("Origin", "http://shop.test")
	rec, body := serve(a, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout Success", body["message"])
	assert.Equal(t, "http://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
