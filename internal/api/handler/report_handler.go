package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/httperror"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/policy"
	"github.com/woundashare/report-service/internal/core/ports"
)

// ReportHandler serves the patient-facing report endpoints.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /v1/reports.
//
// @Summary      Submit a wound report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string               false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createReportRequest  true   "Report details"
// @Success      201              {object}  reportResponse
// @Success      200              {object}  reportResponse  "Replayed submission"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	result, err := h.service.CreateReport(c.Request().Context(), toCreateInput(req, p, idempotencyKey))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/reports/"+result.Report.ID)
	return c.JSON(status, toReportResponse(result.Report))
}

// List handles GET /v1/reports: the caller's own reports.
//
// @Summary      List my reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "all, pending or completed"
// @Param        search  query     string  false  "Matches title, description, location"
// @Param        sort    query     string  false  "newest (default) or oldest"
// @Success      200     {object}  listReportsResponse
// @Failure      401     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /v1/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	query, err := parseListQuery(c)
	if err != nil {
		return err
	}
	query.OwnerID = p.ID

	reports, err := h.service.ListReports(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listReportsResponse{Reports: toReportResponses(reports), Count: len(reports)})
}

// Stats handles GET /v1/reports/stats. Admins get figures over all reports.
//
// @Summary      Dashboard statistics
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/reports/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	ownerID := p.ID
	if policy.CanListAllReports(p) {
		ownerID = ""
	}
	stats, err := h.service.Stats(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Completed: stats.Completed,
		Recent:    toReportResponses(stats.Recent),
	})
}

// Get handles GET /v1/reports/:id.
//
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  reportResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	report, found, err := h.service.GetReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !found {
		return httperror.WithRedirect(domain.ErrReportNotFound, policy.MyReportsRoute)
	}
	if !policy.CanViewReport(p, report) {
		return httperror.WithRedirect(domain.ErrForbidden, policy.MyReportsRoute)
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}

// Upload handles POST /v1/uploads: stores a wound image and returns its URL.
//
// @Summary      Upload a wound image
// @Tags         reports
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Wound image"
// @Success      201    {object}  uploadResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /v1/uploads [post]
func (h *ReportHandler) Upload(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return &domain.ValidationError{Field: "image", Reason: "is required"}
	}
	contentType := file.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return &domain.ValidationError{Field: "image", Reason: "must be an image"}
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	url, err := h.service.UploadImage(c.Request().Context(), file.Filename, contentType, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}
