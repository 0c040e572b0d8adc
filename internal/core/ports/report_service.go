package ports

import (
	"context"
	"io"
	"time"

	"github.com/woundashare/report-service/internal/core/domain"
)

// CreateReportInput carries everything needed to submit a report.
type CreateReportInput struct {
	OwnerID        string
	OwnerName      string
	Title          string
	Description    string
	ImageURL       string
	Location       string
	PainLevel      int
	IdempotencyKey string
}

// MedicationInput is a single prescribed medication.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

// AttachPrescriptionInput carries the review form submitted by an admin.
type AttachPrescriptionInput struct {
	ReportID     string
	ActorID      string
	Diagnosis    string
	Treatment    string
	Medications  []MedicationInput
	FollowUpDate *time.Time
	DoctorNotes  string
}

// SortOrder orders report listings by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ListReportsInput carries the dashboard filters.
// OwnerID scopes the listing; empty means all reports (admin only).
type ListReportsInput struct {
	OwnerID string
	Status  string // "", "all", "pending" or "completed"
	Search  string // case-insensitive match on title, description, location; user name too when OwnerID is empty
	Sort    SortOrder
}

// ReportStats summarises a dashboard.
type ReportStats struct {
	Total     int
	Pending   int
	Completed int
	Recent    []*domain.Report
}

// CreateReportResult is returned by CreateReport.
type CreateReportResult struct {
	Report *domain.Report
	// AlreadyExisted is true when the Idempotency-Key matched an existing report.
	AlreadyExisted bool
}

// ReportService is the report store used by the presentation layer.
type ReportService interface {
	CreateReport(ctx context.Context, input CreateReportInput) (*CreateReportResult, error)
	GetReportsByOwner(ctx context.Context, userID string) ([]*domain.Report, error)
	GetAllReports(ctx context.Context) ([]*domain.Report, error)
	GetReport(ctx context.Context, id string) (*domain.Report, bool, error)
	AttachPrescription(ctx context.Context, input AttachPrescriptionInput) (*domain.Report, error)
	ListReports(ctx context.Context, input ListReportsInput) ([]*domain.Report, error)
	Stats(ctx context.Context, ownerID string) (*ReportStats, error)
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
