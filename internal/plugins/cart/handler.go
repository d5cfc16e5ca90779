package cart

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/middleware"
)

// UserIDFunc returns the admitted user's ID for a request.
type UserIDFunc func(c echo.Context) string

// Handler handles cart HTTP requests.
type Handler struct {
	service CartService
	userID  UserIDFunc
}

// NewHandler creates a new cart handler.
func NewHandler(service CartService, userID UserIDFunc) *Handler {
	return &Handler{service: service, userID: userID}
}

// List returns the cart (GET /api/v1/cart).
func (h *Handler) List(c echo.Context) error {
	return h.respond(c)
}

// Add puts a product in the cart (POST /api/v1/cart/add).
func (h *Handler) Add(c echo.Context) error {
	req, err := bind(c)
	if err != nil {
		return err
	}

	added, err := h.service.Add(c.Request().Context(), h.userID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	if !added {
		return middleware.Declined(c, "Product already in cart")
	}
	return h.respond(c)
}

// Quantity changes the amount of a cart entry (POST /api/v1/cart/quantity).
func (h *Handler) Quantity(c echo.Context) error {
	req, err := bind(c)
	if err != nil {
		return err
	}

	if err := h.service.UpdateQuantity(c.Request().Context(), h.userID(c), req.ProductID, req.Quantity); err != nil {
		return err
	}
	return h.respond(c)
}

// Remove takes a product out of the cart (POST /api/v1/cart/remove).
func (h *Handler) Remove(c echo.Context) error {
	req, err := bind(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), h.userID(c), req.ProductID); err != nil {
		return err
	}
	return h.respond(c)
}

// Empty clears the cart (POST /api/v1/cart/empty).
func (h *Handler) Empty(c echo.Context) error {
	if err := h.service.Empty(c.Request().Context(), h.userID(c)); err != nil {
		return err
	}
	return h.respond(c)
}

func (h *Handler) respond(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), h.userID(c))
	if err != nil {
		return err
	}
	return middleware.OK(c, "", middleware.Fields{"cart": items})
}

func bind(c echo.Context) (ItemRequest, error) {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return req, apperror.NewBadRequest("invalid request")
	}
	return req, nil
}
