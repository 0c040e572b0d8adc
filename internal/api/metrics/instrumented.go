package metrics

import (
	"context"
	"io"
	"time"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// instrumentedReportService records store metrics around every call.
type instrumentedReportService struct {
	next ports.ReportService
}

// InstrumentReportService wraps svc so each operation is timed and counted.
func InstrumentReportService(svc ports.ReportService) ports.ReportService {
	return &instrumentedReportService{next: svc}
}

func observe(op string, start time.Time) {
	StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedReportService) CreateReport(ctx context.Context, input ports.CreateReportInput) (*ports.CreateReportResult, error) {
	defer observe("create", time.Now())
	res, err := s.next.CreateReport(ctx, input)
	if err == nil {
		if res.AlreadyExisted {
			ReportsCreatedTotal.WithLabelValues("replayed").Inc()
		} else {
			ReportsCreatedTotal.WithLabelValues("created").Inc()
		}
	}
	return res, err
}

func (s *instrumentedReportService) GetReportsByOwner(ctx context.Context, userID string) ([]*domain.Report, error) {
	defer observe("list_by_owner", time.Now())
	return s.next.GetReportsByOwner(ctx, userID)
}

func (s *instrumentedReportService) GetAllReports(ctx context.Context) ([]*domain.Report, error) {
	defer observe("list_all", time.Now())
	return s.next.GetAllReports(ctx)
}

func (s *instrumentedReportService) GetReport(ctx context.Context, id string) (*domain.Report, bool, error) {
	defer observe("get", time.Now())
	return s.next.GetReport(ctx, id)
}

func (s *instrumentedReportService) AttachPrescription(ctx context.Context, input ports.AttachPrescriptionInput) (*domain.Report, error) {
	defer observe("attach", time.Now())
	r, err := s.next.AttachPrescription(ctx, input)
	if err == nil {
		PrescriptionsAttachedTotal.Inc()
	}
	return r, err
}

func (s *instrumentedReportService) ListReports(ctx context.Context, input ports.ListReportsInput) ([]*domain.Report, error) {
	defer observe("list", time.Now())
	return s.next.ListReports(ctx, input)
}

func (s *instrumentedReportService) Stats(ctx context.Context, ownerID string) (*ports.ReportStats, error) {
	defer observe("stats", time.Now())
	return s.next.Stats(ctx, ownerID)
}

func (s *instrumentedReportService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	defer observe("upload", time.Now())
	return s.next.UploadImage(ctx, filename, contentType, body)
}
