package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/httperror"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/policy"
	"github.com/woundashare/report-service/internal/core/ports"
)

// AdminReportHandler serves the review endpoints. Every method re-checks the
// access policy before calling the store.
type AdminReportHandler struct {
	service ports.ReportService
}

func NewAdminReportHandler(service ports.ReportService) *AdminReportHandler {
	return &AdminReportHandler{service: service}
}

// List handles GET /v1/admin/reports.
//
// @Summary      List all reports
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "all, pending or completed"
// @Param        search  query     string  false  "Matches title, description, location, patient name"
// @Param        sort    query     string  false  "newest (default) or oldest"
// @Success      200     {object}  listReportsResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /v1/admin/reports [get]
func (h *AdminReportHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if !policy.CanListAllReports(p) {
		return domain.ErrForbidden
	}
	query, err := parseListQuery(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListReports(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listReportsResponse{Reports: toReportResponses(reports), Count: len(reports)})
}

// Get handles GET /v1/admin/reports/:id.
//
// @Summary      Get any report
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  reportResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/reports/{id} [get]
func (h *AdminReportHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	report, found, err := h.service.GetReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !found {
		return httperror.WithRedirect(domain.ErrReportNotFound, policy.AdminRoute)
	}
	if !policy.CanViewReport(p, report) {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}

// AttachPrescription handles POST /v1/admin/reports/:id/prescription.
// Attaching to a completed report replaces its prescription.
//
// @Summary      Review a report
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Report id"
// @Param        body  body      createPrescriptionRequest  true  "Prescription"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/admin/reports/{id}/prescription [post]
func (h *AdminReportHandler) AttachPrescription(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if !policy.CanCreatePrescription(p) {
		return domain.ErrForbidden
	}

	var req createPrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	input, err := toAttachInput(req, c.Param("id"), p.ID)
	if err != nil {
		return err
	}

	report, err := h.service.AttachPrescription(c.Request().Context(), input)
	if errors.Is(err, domain.ErrReportNotFound) {
		return httperror.WithRedirect(err, policy.AdminRoute)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}
