package wishlist

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/middleware"
)

// UserIDFunc returns the admitted user's ID for a request.
type UserIDFunc func(c echo.Context) string

// Handler handles wishlist HTTP requests.
type Handler struct {
	service WishlistService
	userID  UserIDFunc
}

// NewHandler creates a new wishlist handler. userID reads the account set
// by the session middleware.
func NewHandler(service WishlistService, userID UserIDFunc) *Handler {
	return &Handler{service: service, userID: userID}
}

// List returns the wishlist (GET /api/v1/wishlist).
func (h *Handler) List(c echo.Context) error {
	return h.respond(c)
}

// Add puts a product on the wishlist (POST /api/v1/wishlist/add).
func (h *Handler) Add(c echo.Context) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	added, err := h.service.Add(c.Request().Context(), h.userID(c), req.ProductID)
	if err != nil {
		return err
	}
	if !added {
		return middleware.Declined(c, "Product already in wishlist")
	}
	return h.respond(c)
}

// Remove takes a product off the wishlist (POST /api/v1/wishlist/remove).
func (h *Handler) Remove(c echo.Context) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.Remove(c.Request().Context(), h.userID(c), req.ProductID); err != nil {
		return err
	}
	return h.respond(c)
}

func (h *Handler) respond(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), h.userID(c))
	if err != nil {
		return err
	}
	return middleware.OK(c, "", middleware.Fields{"wishlist": items})
}
