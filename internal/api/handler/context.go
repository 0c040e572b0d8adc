package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/middleware"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/session"
)

// ctxPrincipal returns the principal injected by the Auth middleware. Its
// absence means the route was mounted without Auth.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get(middleware.ContextKeyPrincipal).(*domain.Principal)
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}

// optionalPrincipal returns the principal if one was authenticated, or nil.
func optionalPrincipal(c echo.Context) *domain.Principal {
	p, _ := c.Get(middleware.ContextKeyPrincipal).(*domain.Principal)
	return p
}

func ctxSession(c echo.Context) (*session.Holder, error) {
	h, _ := c.Get(middleware.ContextKeySession).(*session.Holder)
	if h == nil {
		return nil, domain.ErrUnauthorized
	}
	return h, nil
}
