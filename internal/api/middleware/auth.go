package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/core/ports"
	"github.com/woundashare/report-service/internal/core/session"
)

// Context keys set by Auth.
const (
	ContextKeyPrincipal = "principal"
	ContextKeySession   = "session"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*ports.TokenClaims, error)
}

// SessionRestorer rebuilds the session holder a token refers to.
type SessionRestorer interface {
	Restore(ctx context.Context, sessionID string) (*session.Holder, error)
}

// Auth validates the bearer token, restores its session and injects the
// session holder and current principal into context. A token whose session
// was logged out is rejected.
func Auth(tokens TokenVerifier, sessions SessionRestorer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err := authenticate(c, authHeader, tokens, sessions); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalAuth(tokens TokenVerifier, sessions SessionRestorer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				if err := authenticate(c, authHeader, tokens, sessions); err != nil {
					c.Logger().Debugf("ignoring invalid credentials: %v", err)
				}
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, authHeader string, tokens TokenVerifier, sessions SessionRestorer) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := tokens.Verify(parts[1])
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	holder, err := sessions.Restore(c.Request().Context(), claims.SessionID)
	if errors.Is(err, session.ErrNoSession) {
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	if err != nil {
		return err
	}

	principal := holder.Current()
	if principal == nil || principal.ID != claims.PrincipalID {
		return echo.NewHTTPError(http.StatusUnauthorized, "session does not match token")
	}

	c.Set(ContextKeySession, holder)
	c.Set(ContextKeyPrincipal, principal)
	return nil
}
