package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/api/metrics"
)

// Limiter records an attempt for clientID and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, scope, clientID string) (bool, error)
}

// RateLimit rejects clients exceeding the limiter's budget for scope with
// 429. Limiter failures let the request through.
func RateLimit(limiter Limiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientIP := c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), scope, clientIP)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Str("ip", clientIP).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				log.Warn().Str("scope", scope).Str("ip", clientIP).Msg("rate limit exceeded")
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}
