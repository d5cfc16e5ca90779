package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/plugins/audit"
	"github.com/keyxmakerx/storefront/internal/plugins/auth"
	"github.com/keyxmakerx/storefront/internal/plugins/cart"
	"github.com/keyxmakerx/storefront/internal/plugins/orders"
	"github.com/keyxmakerx/storefront/internal/plugins/smtp"
	"github.com/keyxmakerx/storefront/internal/plugins/wishlist"
)

// RegisterRoutes builds every plugin and mounts its routes. This is the
// single place where plugins are wired to each other.
func (a *App) RegisterRoutes() error {
	e := a.Echo
	cfg := a.Config

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	// --- Repositories ---
	userRepo := auth.NewUserRepository(a.DB)
	wishlistRepo := wishlist.NewWishlistRepository(a.DB)
	cartRepo := cart.NewCartRepository(a.DB)
	orderRepo := orders.NewOrderRepository(a.DB)
	auditService := audit.NewAuditService(audit.NewAuditRepository(a.DB))

	// --- Auth plugin ---
	sessions, err := auth.NewSessionIssuer(cfg.Auth.SecretKey, cfg.Auth.SessionTTL(), auth.CookiePolicy{
		Secure:   cfg.Auth.CookieSecure,
		SameSite: auth.ParseSameSite(cfg.Auth.CookieSameSite),
	})
	if err != nil {
		return fmt.Errorf("creating session issuer: %w", err)
	}

	authService := auth.NewAuthService(
		userRepo,
		auth.NewArgon2Hasher(cfg.Auth.Argon),
		auth.NewResetCodeGenerator(cfg.Auth.ResetCodeTTL),
		sessions,
		smtp.NewSender(cfg.SMTP),
		auth.NewPopulator(wishlistRepo, cartRepo, orderRepo),
	)
	requireAuth := auth.RequireAuth(authService, sessions)
	requireAdmin := auth.RequireRole(auth.RoleAdmin)

	limiter := middleware.NewLimiter(a.Redis)
	authLimit := limiter.RateLimit("auth", cfg.RateLimit.Auth, cfg.RateLimit.Window)

	api := e.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewHandler(authService, sessions, auditService), requireAuth, authLimit)
	audit.RegisterRoutes(api, audit.NewHandler(auditService), requireAuth, requireAdmin)

	// --- Account collections ---
	wishlist.RegisterRoutes(api,
		wishlist.NewHandler(wishlist.NewWishlistService(wishlistRepo), auth.GetUserID),
		requireAuth,
	)
	cart.RegisterRoutes(api,
		cart.NewHandler(cart.NewCartService(cartRepo), auth.GetUserID),
		requireAuth,
	)

	return nil
}

// healthz reports whether MariaDB and Redis answer a ping.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "mariadb": "ok", "redis": "ok"}
	code := http.StatusOK

	if err := a.DB.PingContext(ctx); err != nil {
		status["mariadb"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, status)
}
