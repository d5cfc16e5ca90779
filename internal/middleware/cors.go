package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsHeaders = strings.Join([]string{"Content-Type", "Accept", "X-Requested-With"}, ", ")
)

// CORS returns middleware that lets the storefront frontend call the API
// from its own origin with cookies attached. Requests from other origins
// get no CORS headers and are blocked by the browser.
//
// A "*" entry is honored only without credentials; the auth cookies would
// otherwise be readable by any site.
func CORS(allowedOrigins []string) echo.MiddlewareFunc {
	allowAll := false
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
			continue
		}
		if o != "" {
			originSet[o] = true
		}
	}
	if allowAll {
		slog.Warn("CORS allows every origin; credentialed requests will only work for listed origins")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			origin := req.Header.Get("Origin")

			// No Origin header means same-origin request -- skip CORS.
			if origin == "" {
				return next(c)
			}

			res.Header().Add("Vary", "Origin")
			credentialed := originSet[origin]
			if !credentialed && !allowAll {
				return next(c)
			}

			res.Header().Set("Access-Control-Allow-Origin", origin)
			if credentialed {
				res.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if req.Method == http.MethodOptions {
				res.Header().Set("Access-Control-Allow-Methods", corsMethods)
				res.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				// Cache preflight response for 1 hour.
				res.Header().Set("Access-Control-Max-Age", "3600")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
