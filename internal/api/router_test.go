package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woundashare/report-service/internal/core/service"
	"github.com/woundashare/report-service/internal/core/session"
	"github.com/woundashare/report-service/internal/infrastructure/memory"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	directory, err := service.NewAuthService(service.DefaultDemoAccounts())
	require.NoError(t, err)

	repo := memory.NewReportRepository(memory.SeedReports(time.Now())...)
	reports := service.NewReportService(repo, nil, nil, service.Latency{}, zerolog.Nop())

	return NewRouter(Dependencies{
		Reports:  reports,
		Sessions: session.NewManager(memory.NewSessionStore(), directory, 0, zerolog.Nop()),
		Tokens:   service.NewTokenService("router-secret", time.Hour),
		TokenTTL: time.Hour,
		Logger:   zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", "").Code)

	rec := do(e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodGet, "/v1/reports", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", decodeError(t, rec).Redirect)

	rec = do(e, http.MethodGet, "/v1/admin/reports", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PatientFlow(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "user@example.com", "user123")

	rec := do(e, http.MethodGet, "/v1/reports", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(e, http.MethodPost, "/v1/reports",
		`{"title":"Scraped knee","description":"Fell off a bike on gravel this morning.","imageUrl":"/placeholder.svg","location":"Right knee","painLevel":4}`,
		token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/v1/reports/stats", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":3`)
	assert.Contains(t, rec.Body.String(), `"pending":2`)

	rec = do(e, http.MethodGet, "/v1/reports/does-not-exist", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/my-reports", decodeError(t, rec).Redirect)
}

func TestRouter_PatientCannotReachAdmin(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "user@example.com", "user123")

	rec := do(e, http.MethodGet, "/v1/admin/reports", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/dashboard", decodeError(t, rec).Redirect)

	rec = do(e, http.MethodPost, "/v1/admin/reports/2/prescription", `{}`, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminReview(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin@woundashare.com", "admin123")

	rec := do(e, http.MethodGet, "/v1/admin/reports?status=pending", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(e, http.MethodPost, "/v1/admin/reports/2/prescription", `{
		"diagnosis": "Superficial abrasion",
		"treatment": "Rinse with saline and apply a non-stick dressing daily.",
		"medications": [{"name": "Paracetamol", "dosage": "500mg", "frequency": "Every 6 hours", "duration": "3 days"}]
	}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	rec = do(e, http.MethodPost, "/v1/admin/reports/2/prescription", `{"diagnosis":"short","treatment":"x","medications":[]}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "diagnosis", decodeError(t, rec).Field)

	rec = do(e, http.MethodPost, "/v1/admin/reports/404/prescription", `{"diagnosis":"short"}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/admin", decodeError(t, rec).Redirect)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "user@example.com", "user123")

	require.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/auth/me", "", token).Code)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/v1/auth/logout", "", token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/auth/me", "", token).Code)
}

func TestRouter_ResolveRoute(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodGet, "/v1/routes/resolve?path=/admin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)

	token := login(t, e, "admin@woundashare.com", "admin123")
	rec = do(e, http.MethodGet, "/v1/routes/resolve?path=/admin", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allow":true`)
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(t)
	do(e, http.MethodGet, "/health", "", "")

	rec := do(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "woundashare_requests_total")
}
