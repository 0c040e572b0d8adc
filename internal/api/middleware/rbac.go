package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/httperror"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/policy"
)

// RequireRoute gates a handler group with the access rule of a front-end
// route. Denials carry the redirect the front end would perform.
func RequireRoute(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := c.Get(ContextKeyPrincipal).(*domain.Principal)

			decision := policy.Resolve(p, route)
			if decision.Allow {
				return next(c)
			}
			if p == nil {
				return httperror.WithRedirect(domain.ErrUnauthorized, decision.Redirect)
			}
			return httperror.WithRedirect(domain.ErrForbidden, decision.Redirect)
		}
	}
}
