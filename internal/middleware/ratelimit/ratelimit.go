package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/pkg/messaging"
)

// Config holds rate limiter settings.
type Config struct {
	Requests int64
	Window   time.Duration
	Logger   *zap.Logger
}

// Middleware limits requests per client IP using a fixed-window counter in
// redis. Keeping the counter in a shared store (rather than a process-local
// map) makes the limit hold across service instances.
func Middleware(client messaging.RedisClient, config Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())

			count, err := client.IncrementWindow(c.Request().Context(), key, config.Window)
			if err != nil {
				// Rate limiting is protective, not load-bearing; let the
				// request through when the counter store is unreachable.
				config.Logger.Warn("Rate limit counter unavailable",
					zap.String("key", key),
					zap.Error(err))
				return next(c)
			}

			if count > config.Requests {
				config.Logger.Warn("Rate limit exceeded",
					zap.String("ip", c.RealIP()),
					zap.String("path", c.Path()),
					zap.Int64("count", count))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Too many requests",
					"code":  "RATE_LIMITED",
				})
			}

			return next(c)
		}
	}
}
