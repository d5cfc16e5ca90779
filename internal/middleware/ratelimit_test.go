package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLimiter(rdb), mr
}

func newLimitedEcho(l *Limiter, max int) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.POST("/login", func(c echo.Context) error {
		return OK(c, "", nil)
	}, l.RateLimit("auth", max, time.Minute))
	return e
}

func doLogin(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksAfterBudget(t *testing.T) {
	l, _ := newTestLimiter(t)
	e := newLimitedEcho(l, 2)

	assert.Equal(t, http.StatusOK, doLogin(e, "203.0.113.5").Code)
	assert.Equal(t, http.StatusOK, doLogin(e, "203.0.113.5").Code)

	rec := doLogin(e, "203.0.113.5")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"too_many_requests"`)

	// A different client has its own budget.
	assert.Equal(t, http.StatusOK, doLogin(e, "203.0.113.9").Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t)
	e := newLimitedEcho(l, 1)

	require.Equal(t, http.StatusOK, doLogin(e, "198.51.100.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doLogin(e, "198.51.100.1").Code)

	mr.FastForward(time.Minute + time.Second)

	assert.Equal(t, http.StatusOK, doLogin(e, "198.51.100.1").Code)
}

func TestRateLimit_SetsTTLOnFirstHit(t *testing.T) {
	l, mr := newTestLimiter(t)
	e := newLimitedEcho(l, 5)

	doLogin(e, "192.0.2.7")

	key := rateLimitKeyPrefix + "auth:192.0.2.7"
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	l, mr := newTestLimiter(t)
	e := newLimitedEcho(l, 1)
	mr.Close()

	assert.Equal(t, http.StatusOK, doLogin(e, "192.0.2.8").Code)
	assert.Equal(t, http.StatusOK, doLogin(e, "192.0.2.8").Code)
}
