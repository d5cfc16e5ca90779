package cart

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the cart routes. Every route needs a session.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	api.GET("/cart", h.List, requireAuth)
	api.POST("/cart/add", h.Add, requireAuth)
	api.POST("/cart/quantity", h.Quantity, requireAuth)
	api.POST("/cart/remove", h.Remove, requireAuth)
	api.POST("/cart/empty", h.Empty, requireAuth)
}
