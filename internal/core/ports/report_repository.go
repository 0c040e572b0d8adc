package ports

import (
	"context"

	"github.com/woundashare/report-service/internal/core/domain"
)

// ReportRepository defines persistence operations for reports.
// Implementations hand out copies; callers never mutate stored state directly.
type ReportRepository interface {
	// Create inserts r at the head of the newest-first ordering. When r
	// carries an idempotency key its owner already used, nothing is inserted
	// and the earlier report is returned with created false. The check and
	// the insert happen in one critical section.
	Create(ctx context.Context, r *domain.Report) (stored *domain.Report, created bool, err error)
	// Get returns the report with the given id; found is false when absent.
	Get(ctx context.Context, id string) (report *domain.Report, found bool, err error)
	// GetByOwner returns the owner's reports, newest-created first.
	GetByOwner(ctx context.Context, userID string) ([]*domain.Report, error)
	// GetAll returns every report, newest-created first.
	GetAll(ctx context.Context) ([]*domain.Report, error)
	// Update applies fn to the stored report inside the repository's critical
	// section. If fn returns an error nothing is written.
	// Returns domain.ErrReportNotFound when id does not exist.
	Update(ctx context.Context, id string, fn func(r *domain.Report) error) (*domain.Report, error)
	// FindByIdempotencyKey returns the report ownerID created with key, if any.
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (report *domain.Report, found bool, err error)
}
