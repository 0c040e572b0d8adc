package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/api/httperror"
	"github.com/woundashare/report-service/internal/api/middleware"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/policy"
	"github.com/woundashare/report-service/internal/core/ports"
)

type stubReportService struct {
	createFn   func(ctx context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error)
	getFn      func(ctx context.Context, id string) (*domain.Report, bool, error)
	attachFn   func(ctx context.Context, in ports.AttachPrescriptionInput) (*domain.Report, error)
	listFn     func(ctx context.Context, in ports.ListReportsInput) ([]*domain.Report, error)
	statsFn    func(ctx context.Context, ownerID string) (*ports.ReportStats, error)
	uploadFn   func(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	calledList bool
}

func (s *stubReportService) CreateReport(ctx context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubReportService) GetReportsByOwner(ctx context.Context, userID string) ([]*domain.Report, error) {
	return s.ListReports(ctx, ports.ListReportsInput{OwnerID: userID})
}

func (s *stubReportService) GetAllReports(ctx context.Context) ([]*domain.Report, error) {
	return s.ListReports(ctx, ports.ListReportsInput{})
}

func (s *stubReportService) GetReport(ctx context.Context, id string) (*domain.Report, bool, error) {
	return s.getFn(ctx, id)
}

func (s *stubReportService) AttachPrescription(ctx context.Context, in ports.AttachPrescriptionInput) (*domain.Report, error) {
	return s.attachFn(ctx, in)
}

func (s *stubReportService) ListReports(ctx context.Context, in ports.ListReportsInput) ([]*domain.Report, error) {
	s.calledList = true
	return s.listFn(ctx, in)
}

func (s *stubReportService) Stats(ctx context.Context, ownerID string) (*ports.ReportStats, error) {
	return s.statsFn(ctx, ownerID)
}

func (s *stubReportService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	return s.uploadFn(ctx, filename, contentType, body)
}

var (
	patient = &domain.Principal{ID: "user-1", Email: "user@example.com", Name: "Demo Patient"}
	admin   = &domain.Principal{ID: "admin-1", Email: "admin@woundashare.com", Name: "Admin User", IsAdmin: true}
)

func pendingReport(id, owner string) *domain.Report {
	return &domain.Report{
		ID:        id,
		UserID:    owner,
		UserName:  "Demo Patient",
		CreatedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		Status:    domain.StatusPending,
		Title:     "Cut on hand",
		PainLevel: 7,
	}
}

func contextAs(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, p *domain.Principal) echo.Context {
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.ContextKeyPrincipal, p)
	}
	return c
}

func expectRedirect(t *testing.T, err error, target error, to string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
	var re *httperror.RedirectError
	if !errors.As(err, &re) || re.To != to {
		t.Fatalf("expected redirect to %s, got %v", to, err)
	}
}

const validReportBody = `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","imageUrl":"/placeholder.svg","location":"Left hand","painLevel":7}`

func TestReportHandler_Create(t *testing.T) {
	var got ports.CreateReportInput
	stub := &stubReportService{
		createFn: func(_ context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error) {
			got = in
			r := pendingReport("report-1", in.OwnerID)
			return &ports.CreateReportResult{Report: r}, nil
		},
	}
	e := newEcho()
	req := jsonRequest(http.MethodPost, "/v1/reports", validReportBody)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()

	if err := NewReportHandler(stub).Create(contextAs(e, req, rec, patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.OwnerID != "user-1" || got.OwnerName != "Demo Patient" || got.PainLevel != 7 || got.IdempotencyKey != "key-1" {
		t.Fatalf("unexpected service input: %+v", got)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "pending" || resp["userId"] != "user-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if _, ok := resp["prescription"]; ok {
		t.Fatal("pending report must not carry a prescription")
	}
	if rec.Header().Get(echo.HeaderLocation) != "/v1/reports/report-1" {
		t.Errorf("unexpected Location header: %q", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestReportHandler_Create_Replay(t *testing.T) {
	stub := &stubReportService{
		createFn: func(_ context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error) {
			return &ports.CreateReportResult{Report: pendingReport("report-1", in.OwnerID), AlreadyExisted: true}, nil
		},
	}
	e := newEcho()
	rec := httptest.NewRecorder()

	if err := NewReportHandler(stub).Create(contextAs(e, jsonRequest(http.MethodPost, "/v1/reports", validReportBody), rec, patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}
}

func TestReportHandler_Create_Validation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"short title", `{"title":"Cut","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"Left hand","painLevel":7}`, "title"},
		{"short description", `{"title":"Cut on hand","description":"Too short","imageUrl":"/x.svg","location":"Left hand","painLevel":7}`, "description"},
		{"missing image", `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","location":"Left hand","painLevel":7}`, "imageUrl"},
		{"short location", `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"L","painLevel":7}`, "location"},
		{"missing pain level", `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"Left hand"}`, "painLevel"},
		{"blank title", `{"title":"       ","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"Left hand","painLevel":7}`, "title"},
		{"padded short title", `{"title":"   Cut    ","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"Left hand","painLevel":7}`, "title"},
		{"blank description", `{"title":"Cut on hand","description":"                         ","imageUrl":"/x.svg","location":"Left hand","painLevel":7}`, "description"},
		{"blank image", `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","imageUrl":"   ","location":"Left hand","painLevel":7}`, "imageUrl"},
		{"blank location", `{"title":"Cut on hand","description":"Kitchen knife slipped while cutting.","imageUrl":"/x.svg","location":"    ","painLevel":7}`, "location"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubReportService{
				createFn: func(context.Context, ports.CreateReportInput) (*ports.CreateReportResult, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			e := newEcho()
			err := NewReportHandler(stub).Create(contextAs(e, jsonRequest(http.MethodPost, "/v1/reports", tc.body), httptest.NewRecorder(), patient))

			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
		})
	}
}

func TestReportHandler_Create_PainLevelZeroIsAllowed(t *testing.T) {
	var got ports.CreateReportInput
	stub := &stubReportService{
		createFn: func(_ context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error) {
			got = in
			return &ports.CreateReportResult{Report: pendingReport("report-1", in.OwnerID)}, nil
		},
	}
	body := strings.Replace(validReportBody, `"painLevel":7`, `"painLevel":0`, 1)
	e := newEcho()

	if err := NewReportHandler(stub).Create(contextAs(e, jsonRequest(http.MethodPost, "/v1/reports", body), httptest.NewRecorder(), patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.PainLevel != 0 {
		t.Fatalf("expected pain level 0, got %d", got.PainLevel)
	}
}

func TestReportHandler_Create_TrimsFields(t *testing.T) {
	var got ports.CreateReportInput
	stub := &stubReportService{
		createFn: func(_ context.Context, in ports.CreateReportInput) (*ports.CreateReportResult, error) {
			got = in
			return &ports.CreateReportResult{Report: pendingReport("report-1", in.OwnerID)}, nil
		},
	}
	body := `{"title":"  Cut on hand  ","description":"  Kitchen knife slipped while cutting.\n","imageUrl":" /placeholder.svg ","location":"\tLeft hand ","painLevel":7}`
	e := newEcho()

	if err := NewReportHandler(stub).Create(contextAs(e, jsonRequest(http.MethodPost, "/v1/reports", body), httptest.NewRecorder(), patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Title != "Cut on hand" || got.Description != "Kitchen knife slipped while cutting." ||
		got.ImageURL != "/placeholder.svg" || got.Location != "Left hand" {
		t.Fatalf("fields not trimmed: %+v", got)
	}
}

func TestReportHandler_Get(t *testing.T) {
	stub := &stubReportService{
		getFn: func(_ context.Context, id string) (*domain.Report, bool, error) {
			switch id {
			case "mine":
				return pendingReport("mine", "user-1"), true, nil
			case "theirs":
				return pendingReport("theirs", "user-2"), true, nil
			}
			return nil, false, nil
		},
	}
	h := NewReportHandler(stub)
	e := newEcho()

	get := func(id string, p *domain.Principal) (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := contextAs(e, httptest.NewRequest(http.MethodGet, "/v1/reports/"+id, nil), rec, p)
		c.SetParamNames("id")
		c.SetParamValues(id)
		return rec, h.Get(c)
	}

	rec, err := get("mine", patient)
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("owner must see own report, got %d %v", rec.Code, err)
	}

	_, err = get("theirs", patient)
	expectRedirect(t, err, domain.ErrForbidden, policy.MyReportsRoute)

	rec, err = get("theirs", admin)
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("admin must see any report, got %d %v", rec.Code, err)
	}

	_, err = get("missing", patient)
	expectRedirect(t, err, domain.ErrReportNotFound, policy.MyReportsRoute)
}

func TestReportHandler_List_ScopesToCaller(t *testing.T) {
	var got ports.ListReportsInput
	stub := &stubReportService{
		listFn: func(_ context.Context, in ports.ListReportsInput) ([]*domain.Report, error) {
			got = in
			return []*domain.Report{pendingReport("a", in.OwnerID)}, nil
		},
	}
	e := newEcho()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/reports?status=Pending&search=hand&sort=oldest", nil)

	if err := NewReportHandler(stub).List(contextAs(e, req, rec, admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.OwnerID != "admin-1" || got.Status != "pending" || got.Search != "hand" || got.Sort != ports.SortOldest {
		t.Fatalf("unexpected query: %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestReportHandler_List_InvalidQuery(t *testing.T) {
	stub := &stubReportService{}
	e := newEcho()

	for _, q := range []string{"status=closed", "sort=sideways"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/reports?"+q, nil)
		err := NewReportHandler(stub).List(contextAs(e, req, httptest.NewRecorder(), patient))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", q, err)
		}
	}
	if stub.calledList {
		t.Fatal("service must not be called with an invalid query")
	}
}

func TestReportHandler_Stats(t *testing.T) {
	var owners []string
	stub := &stubReportService{
		statsFn: func(_ context.Context, ownerID string) (*ports.ReportStats, error) {
			owners = append(owners, ownerID)
			return &ports.ReportStats{Total: 2, Pending: 1, Completed: 1, Recent: []*domain.Report{pendingReport("a", "user-1")}}, nil
		},
	}
	h := NewReportHandler(stub)
	e := newEcho()

	rec := httptest.NewRecorder()
	if err := h.Stats(contextAs(e, httptest.NewRequest(http.MethodGet, "/v1/reports/stats", nil), rec, patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if err := h.Stats(contextAs(e, httptest.NewRequest(http.MethodGet, "/v1/reports/stats", nil), httptest.NewRecorder(), admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if len(owners) != 2 || owners[0] != "user-1" || owners[1] != "" {
		t.Fatalf("patients see their own stats, admins see all: %q", owners)
	}
	if !strings.Contains(rec.Body.String(), `"pending":1`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func multipartImage(t *testing.T, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="wound.png"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("fake-png"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestReportHandler_Upload(t *testing.T) {
	stub := &stubReportService{
		uploadFn: func(_ context.Context, filename, contentType string, body io.Reader) (string, error) {
			data, _ := io.ReadAll(body)
			if filename != "wound.png" || contentType != "image/png" || string(data) != "fake-png" {
				t.Fatalf("unexpected upload: %s %s %q", filename, contentType, data)
			}
			return "/placeholder.svg", nil
		},
	}
	e := newEcho()
	rec := httptest.NewRecorder()

	if err := NewReportHandler(stub).Upload(contextAs(e, multipartImage(t, "image/png"), rec, patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"url":"/placeholder.svg"`) {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReportHandler_Upload_RejectsNonImages(t *testing.T) {
	e := newEcho()

	err := NewReportHandler(&stubReportService{}).Upload(contextAs(e, multipartImage(t, "application/pdf"), httptest.NewRecorder(), patient))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "image" {
		t.Fatalf("expected image validation error, got %v", err)
	}

	err = NewReportHandler(&stubReportService{}).Upload(contextAs(e, httptest.NewRequest(http.MethodPost, "/v1/uploads", nil), httptest.NewRecorder(), patient))
	if !errors.As(err, &ve) || ve.Field != "image" {
		t.Fatalf("expected missing image error, got %v", err)
	}
}
