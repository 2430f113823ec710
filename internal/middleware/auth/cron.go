package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CronConfig holds the configuration for the scheduler-trigger middleware
type CronConfig struct {
	Secret string
	Logger *zap.Logger
}

// CronMiddleware authorizes scheduler-triggered endpoints with a shared
// bearer secret. A missing server-side secret is a deployment fault and
// answers 500, not 401, so the scheduler alert fires instead of silently
// retrying forever.
func CronMiddleware(config CronConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Secret == "" {
				config.Logger.Error("Cron secret is not configured")
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "Cron secret not configured",
					"code":  "CRON_SECRET_MISSING",
				})
			}

			authHeader := c.Request().Header.Get("Authorization")
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || token == authHeader ||
				subtle.ConstantTimeCompare([]byte(token), []byte(config.Secret)) != 1 {
				config.Logger.Warn("Rejected cron trigger with bad credentials",
					zap.String("path", c.Request().URL.Path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid cron credentials",
					"code":  "INVALID_CRON_TOKEN",
				})
			}

			return next(c)
		}
	}
}
