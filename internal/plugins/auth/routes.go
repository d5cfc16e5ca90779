package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the credential routes on the API group.
// requireAuth guards account routes; limit throttles the endpoints that
// accept a password or reset code.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth, limit echo.MiddlewareFunc) {
	// Public routes -- no session required.
	api.POST("/signup", h.Signup, limit)
	api.POST("/login", h.Login, limit)
	api.GET("/logout", h.Logout)
	api.POST("/forgotpassword", h.ForgotPassword, limit)
	api.POST("/verifycode", h.VerifyCode, limit)

	// Admitted by the verification cookie instead of a session.
	api.POST("/password/reset", h.PasswordReset, RequireResetVerification(h.service))

	// Session required.
	api.GET("/userdashboard", h.Dashboard, requireAuth)
	api.POST("/userdashboard/update", h.UpdateProfile, requireAuth)
	api.POST("/password/update", h.UpdatePassword, requireAuth)

	// Admin only.
	api.GET("/admin/users", h.ListUsers, requireAuth, RequireRole(RoleAdmin))
}
