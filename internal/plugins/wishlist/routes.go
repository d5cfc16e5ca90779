package wishlist

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the wishlist routes. Every route needs a session.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	api.GET("/wishlist", h.List, requireAuth)
	api.POST("/wishlist/add", h.Add, requireAuth)
	api.POST("/wishlist/remove", h.Remove, requireAuth)
}
