package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/storefront/internal/commerce"
	"github.com/keyxmakerx/storefront/internal/middleware"
)

// memCart backs mockCartRepo with a single user's cart, in insertion order.
type memCart struct {
	order []string
	qty   map[string]int
}

func newMemCartRepo() (*mockCartRepo, *memCart) {
	c := &memCart{qty: map[string]int{}}
	repo := &mockCartRepo{
		addFn: func(_ context.Context, _, _, productID string, quantity int, _ time.Time) (bool, error) {
			if _, ok := c.qty[productID]; ok {
				return false, nil
			}
			c.order = append(c.order, productID)
			c.qty[productID] = quantity
			return true, nil
		},
		setQuantityFn: func(_ context.Context, _, productID string, quantity int) error {
			if _, ok := c.qty[productID]; ok {
				c.qty[productID] = quantity
			}
			return nil
		},
		emptyFn: func(context.Context, string) error {
			c.order, c.qty = nil, map[string]int{}
			return nil
		},
		listFn: func(context.Context, string) ([]commerce.CartItem, error) {
			items := []commerce.CartItem{}
			for _, id := range c.order {
				items = append(items, commerce.CartItem{ProductID: id, Quantity: c.qty[id]})
			}
			return items, nil
		},
	}
	return repo, c
}

func newTestEcho(repo CartRepository) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	h := NewHandler(NewCartService(repo), func(echo.Context) string { return "u1" })
	RegisterRoutes(e.Group("/api/v1"), h, func(next echo.HandlerFunc) echo.HandlerFunc { return next })
	return e
}

func post(e *echo.Echo, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHandler_AddTwice(t *testing.T) {
	repo, cart := newMemCartRepo()
	e := newTestEcho(repo)

	rec, body := post(e, "/api/v1/cart/add", `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["cart"], 1)

	rec, body = post(e, "/api/v1/cart/add", `{"productId":"p1","quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Product already in cart", body["message"])
	assert.Equal(t, 2, cart.qty["p1"], "a repeat add must not change the quantity")
}

func TestHandler_QuantityOfNonMember(t *testing.T) {
	repo, cart := newMemCartRepo()
	e := newTestEcho(repo)
	post(e, "/api/v1/cart/add", `{"productId":"p1","quantity":1}`)

	rec, body := post(e, "/api/v1/cart/quantity", `{"productId":"p9","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{"p1"}, cart.order)
	assert.Equal(t, 1, cart.qty["p1"])
}

func TestHandler_QuantityUpdate(t *testing.T) {
	repo, _ := newMemCartRepo()
	e := newTestEcho(repo)
	post(e, "/api/v1/cart/add", `{"productId":"p1","quantity":1}`)

	rec, body := post(e, "/api/v1/cart/quantity", `{"productId":"p1","quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	items := body["cart"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(4), items[0].(map[string]any)["quantity"])

	rec, body = post(e, "/api/v1/cart/quantity", `{"productId":"p1","quantity":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", body["error"])
}

func TestHandler_Empty(t *testing.T) {
	repo, _ := newMemCartRepo()
	e := newTestEcho(repo)
	post(e, "/api/v1/cart/add", `{"productId":"p1","quantity":1}`)
	post(e, "/api/v1/cart/add", `{"productId":"p2","quantity":1}`)

	rec, body := post(e, "/api/v1/cart/empty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["cart"])
}
