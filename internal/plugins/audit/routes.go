package audit

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the admin audit feed. Both guards come from the
// auth plugin: requireAuth admits a session, requireAdmin checks the role.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth, requireAdmin echo.MiddlewareFunc) {
	api.GET("/admin/audit", h.Recent, requireAuth, requireAdmin)
	api.GET("/admin/users/:id/audit", h.UserHistory, requireAuth, requireAdmin)
}
