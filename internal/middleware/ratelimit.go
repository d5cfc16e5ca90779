// Package middleware provides HTTP middleware for the storefront API.
// ratelimit.go implements a per-IP fixed-window limiter whose counters live
// in Redis, so every replica shares one budget. Used on the credential
// endpoints.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

const rateLimitKeyPrefix = "ratelimit:"

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	redis redis.Cmdable
}

// NewLimiter creates a limiter backed by the given Redis client.
func NewLimiter(rdb redis.Cmdable) *Limiter {
	return &Limiter{redis: rdb}
}

// Allow records one hit for key and reports whether it is within
// maxRequests for the current window.
func (l *Limiter) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing rate counter: %w", err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("setting rate window: %w", err)
		}
	}

	return count <= int64(maxRequests), nil
}

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window. scope separates budgets between route groups.
// If Redis is unreachable the request is let through and a warning logged.
func (l *Limiter) RateLimit(scope string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateLimitKeyPrefix + scope + ":" + c.RealIP()

			ok, err := l.Allow(c.Request().Context(), key, maxRequests, window)
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("scope", scope),
					slog.Any("error", err),
				)
				return next(c)
			}
			if !ok {
				return apperror.NewTooManyRequests("Rate limit exceeded. Please try again later.")
			}
			return next(c)
		}
	}
}
