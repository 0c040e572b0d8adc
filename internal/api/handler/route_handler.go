package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/policy"
)

// RouteHandler exposes the navigation rules so a front end can gate its
// routes without duplicating them.
type RouteHandler struct{}

func NewRouteHandler() *RouteHandler {
	return &RouteHandler{}
}

// Resolve handles GET /v1/routes/resolve?path=.
//
// @Summary      Resolve navigation to a front-end route
// @Tags         routes
// @Produce      json
// @Param        path  query     string  true  "Front-end route, e.g. /admin/reports/2"
// @Success      200   {object}  routeDecisionResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/routes/resolve [get]
func (h *RouteHandler) Resolve(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return &domain.ValidationError{Field: "path", Reason: "is required"}
	}

	decision := policy.Resolve(optionalPrincipal(c), path)
	return c.JSON(http.StatusOK, routeDecisionResponse{
		Path:     path,
		Access:   policy.Classify(path).String(),
		Allow:    decision.Allow,
		Redirect: decision.Redirect,
	})
}
