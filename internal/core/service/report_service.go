package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// recentReportsLimit is how many reports a dashboard shows as "recent".
const recentReportsLimit = 3

// ReportService is the report store. Every operation waits out its simulated
// latency first and then touches the repository in a single call, so no
// operation observes another's partial effect.
type ReportService struct {
	repo     ports.ReportRepository
	uploader ports.ImageUploader
	audit    ports.AuditPublisher
	latency  Latency
	sleep    func(time.Duration)
	now      func() time.Time
	logger   zerolog.Logger
}

func NewReportService(
	repo ports.ReportRepository,
	uploader ports.ImageUploader,
	audit ports.AuditPublisher,
	latency Latency,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		repo:     repo,
		uploader: uploader,
		audit:    audit,
		latency:  latency,
		sleep:    time.Sleep,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateReport validates and stores a new pending report. If an idempotency
// key is provided and already seen, the previously created report is
// returned without side effects.
func (s *ReportService) CreateReport(ctx context.Context, input ports.CreateReportInput) (*ports.CreateReportResult, error) {
	s.wait(s.latency.Create)

	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, &domain.ValidationError{Field: "userId", Reason: "is required"}
	}

	if input.IdempotencyKey != "" {
		existing, found, err := s.repo.FindByIdempotencyKey(ctx, input.OwnerID, input.IdempotencyKey)
		if err == nil && found {
			return s.replay(input.IdempotencyKey, existing), nil
		}
	}

	res := domain.ValidateNewReport(domain.NewReport{
		OwnerID:     input.OwnerID,
		OwnerName:   input.OwnerName,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
		PainLevel:   input.PainLevel,
	})
	if !res.OK() {
		s.logger.Debug().Str("field", res.Field()).Str("user_id", input.OwnerID).Msg("report rejected")
		return nil, res.Err()
	}

	report := &domain.Report{
		ID:             "report-" + uuid.NewString(),
		UserID:         input.OwnerID,
		UserName:       input.OwnerName,
		CreatedAt:      s.now().UTC(),
		Status:         domain.StatusPending,
		Title:          input.Title,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		Location:       input.Location,
		PainLevel:      input.PainLevel,
		IdempotencyKey: input.IdempotencyKey,
	}

	stored, created, err := s.repo.Create(ctx, report)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create report")
		return nil, fmt.Errorf("create report: %w", err)
	}
	// A concurrent request with the same key won the insert.
	if !created {
		return s.replay(input.IdempotencyKey, stored), nil
	}

	s.logger.Info().Str("report_id", report.ID).Str("user_id", report.UserID).Int("pain_level", report.PainLevel).Msg("report created")
	s.publish(domain.AuditEvent{
		ReportID: report.ID,
		Action:   domain.AuditReportCreated,
		ActorID:  report.UserID,
		Status:   report.Status,
		At:       report.CreatedAt,
	})

	return &ports.CreateReportResult{Report: report.Clone()}, nil
}

func (s *ReportService) replay(key string, existing *domain.Report) *ports.CreateReportResult {
	s.logger.Info().Str("idempotency_key", key).Str("report_id", existing.ID).Msg("idempotent replay")
	return &ports.CreateReportResult{Report: existing, AlreadyExisted: true}
}

// GetReportsByOwner returns the owner's reports, newest first. No data is an
// empty slice, never an error.
func (s *ReportService) GetReportsByOwner(ctx context.Context, userID string) ([]*domain.Report, error) {
	s.wait(s.latency.List)

	reports, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reports by owner: %w", err)
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	return reports, nil
}

// GetAllReports returns every report, newest first. Callers must check
// policy.CanListAllReports before calling.
func (s *ReportService) GetAllReports(ctx context.Context) ([]*domain.Report, error) {
	s.wait(s.latency.List)

	reports, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all reports: %w", err)
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	return reports, nil
}

// GetReport is a point lookup. An absent report is reported through found,
// not as an error.
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.Report, bool, error) {
	s.wait(s.latency.Get)

	report, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get report: %w", err)
	}
	return report, found, nil
}

// AttachPrescription validates the review and completes the report.
// Attaching to an already completed report overwrites its prescription.
func (s *ReportService) AttachPrescription(ctx context.Context, input ports.AttachPrescriptionInput) (*domain.Report, error) {
	s.wait(s.latency.Attach)

	medications := make([]domain.Medication, len(input.Medications))
	for i, m := range input.Medications {
		medications[i] = domain.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		}
	}
	candidate := domain.NewPrescription{
		Diagnosis:    input.Diagnosis,
		Treatment:    input.Treatment,
		Medications:  medications,
		FollowUpDate: input.FollowUpDate,
		DoctorNotes:  input.DoctorNotes,
	}

	var replaced *domain.Prescription
	now := s.now().UTC()
	prescriptionID := "prescription-" + uuid.NewString()

	updated, err := s.repo.Update(ctx, input.ReportID, func(r *domain.Report) error {
		if res := domain.ValidateNewPrescription(candidate); !res.OK() {
			return res.Err()
		}
		prev, err := r.AttachPrescription(&domain.Prescription{
			ID:           prescriptionID,
			ReportID:     r.ID,
			CreatedAt:    now,
			Diagnosis:    candidate.Diagnosis,
			Treatment:    candidate.Treatment,
			Medications:  candidate.Medications,
			FollowUpDate: candidate.FollowUpDate,
			DoctorNotes:  candidate.DoctorNotes,
		})
		replaced = prev
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Debug().Err(err).Str("report_id", input.ReportID).Msg("prescription rejected")
			return nil, err
		}
		s.logger.Error().Err(err).Str("report_id", input.ReportID).Msg("failed to attach prescription")
		return nil, fmt.Errorf("attach prescription: %w", err)
	}

	event := domain.AuditEvent{
		ReportID: updated.ID,
		Action:   domain.AuditPrescriptionAttached,
		ActorID:  input.ActorID,
		Status:   updated.Status,
		At:       now,
		Detail:   prescriptionID,
	}
	if replaced != nil {
		s.logger.Warn().
			Str("report_id", updated.ID).
			Str("replaced_prescription_id", replaced.ID).
			Str("prescription_id", prescriptionID).
			Msg("prescription overwritten")
		event.Action = domain.AuditPrescriptionReplaced
		event.Detail = "replaced=" + replaced.ID
	} else {
		s.logger.Info().Str("report_id", updated.ID).Str("prescription_id", prescriptionID).Msg("prescription attached")
	}
	s.publish(event)

	return updated, nil
}

// ListReports returns a filtered, searched and sorted listing. OwnerID
// scopes the listing; an empty OwnerID lists every report and also searches
// the patient name.
func (s *ReportService) ListReports(ctx context.Context, input ports.ListReportsInput) ([]*domain.Report, error) {
	var (
		reports []*domain.Report
		err     error
	)
	if input.OwnerID != "" {
		reports, err = s.GetReportsByOwner(ctx, input.OwnerID)
	} else {
		reports, err = s.GetAllReports(ctx)
	}
	if err != nil {
		return nil, err
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	query := strings.ToLower(strings.TrimSpace(input.Search))

	out := make([]*domain.Report, 0, len(reports))
	for _, r := range reports {
		if status != "" && status != "all" && string(r.Status) != status {
			continue
		}
		if query != "" && !matchesSearch(r, query, input.OwnerID == "") {
			continue
		}
		out = append(out, r)
	}

	if input.Sort == ports.SortOldest {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

// matchesSearch looks at the report text, and at the patient name only in
// unscoped listings where reports of several patients are mixed.
func matchesSearch(r *domain.Report, query string, withOwner bool) bool {
	fields := []string{r.Title, r.Description, r.Location}
	if withOwner {
		fields = append(fields, r.UserName)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Stats counts reports by status and returns the most recent ones.
// An empty ownerID covers every report.
func (s *ReportService) Stats(ctx context.Context, ownerID string) (*ports.ReportStats, error) {
	reports, err := s.ListReports(ctx, ports.ListReportsInput{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	stats := &ports.ReportStats{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	n := len(reports)
	if n > recentReportsLimit {
		n = recentReportsLimit
	}
	stats.Recent = reports[:n]
	return stats, nil
}

// UploadImage stores a wound image and returns its URL.
func (s *ReportService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	s.wait(s.latency.Upload)

	url, err := s.uploader.Upload(ctx, filename, contentType, body)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("image upload failed")
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (s *ReportService) wait(d time.Duration) {
	if d > 0 {
		s.sleep(d)
	}
}

func (s *ReportService) publish(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Publish(event)
	}
}
