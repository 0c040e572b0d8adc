package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/metrics"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
	"github.com/woundashare/report-service/internal/core/session"
)

// SessionOpener hands out a session holder for a session id.
type SessionOpener interface {
	Open(ctx context.Context, sessionID string) (*session.Holder, error)
}

// LimitResetter clears the attempts a client has spent against a rate limit.
type LimitResetter interface {
	Reset(ctx context.Context, scope, clientID string) error
}

type AuthHandler struct {
	sessions     SessionOpener
	tokens       ports.TokenIssuer
	tokenTTL     time.Duration
	limits       LimitResetter
	limitScope   string
	newSessionID func() string
	now          func() time.Time
}

func NewAuthHandler(sessions SessionOpener, tokens ports.TokenIssuer, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		tokens:       tokens,
		tokenTTL:     tokenTTL,
		newSessionID: uuid.NewString,
		now:          time.Now,
	}
}

// WithLimitReset makes a successful login clear the client's attempts in
// scope, so failures before it do not count against later logins.
func (h *AuthHandler) WithLimitReset(limits LimitResetter, scope string) *AuthHandler {
	h.limits = limits
	h.limitScope = scope
	return h
}

// Login authenticates against the demo accounts and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sid := h.newSessionID()
	holder, err := h.sessions.Open(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	p, err := holder.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.limits != nil {
		if err := h.limits.Reset(c.Request().Context(), h.limitScope, c.RealIP()); err != nil {
			c.Logger().Warnf("reset %s rate limit: %v", h.limitScope, err)
		}
	}

	return h.respondWithToken(c, http.StatusOK, sid, holder, p)
}

// Register creates a patient account and starts a session for it.
//
// @Summary      Register a new patient
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sid := h.newSessionID()
	holder, err := h.sessions.Open(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	p, err := holder.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, http.StatusCreated, sid, holder, p)
}

// Logout ends the caller's session; its token stops working.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	holder, err := ctxSession(c)
	if err != nil {
		return err
	}
	holder.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in principal.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Principal
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, sid string, holder *session.Holder, p *domain.Principal) error {
	token, err := h.tokens.Issue(ports.TokenClaims{
		SessionID:   sid,
		PrincipalID: p.ID,
		IsAdmin:     p.IsAdmin,
	})
	if err != nil {
		holder.Logout(c.Request().Context())
		return err
	}
	return c.JSON(status, authResponse{
		Token:     token,
		ExpiresAt: h.now().Add(h.tokenTTL).UTC(),
		User:      p,
	})
}
