package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// ReportRepository is the authoritative in-process report table. Reports
// are kept newest-created first and handed out as deep copies.
type ReportRepository struct {
	mu      sync.RWMutex
	reports []*domain.Report
}

// NewReportRepository returns a repository holding copies of seed.
func NewReportRepository(seed ...*domain.Report) ports.ReportRepository {
	r := &ReportRepository{reports: make([]*domain.Report, 0, len(seed))}
	for _, s := range seed {
		r.reports = append(r.reports, s.Clone())
	}
	sort.SliceStable(r.reports, func(i, j int) bool {
		return r.reports[i].CreatedAt.After(r.reports[j].CreatedAt)
	})
	return r
}

func (r *ReportRepository) Create(_ context.Context, report *domain.Report) (*domain.Report, bool, error) {
	if report == nil || report.ID == "" {
		return nil, false, fmt.Errorf("create report: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findByKey(report.UserID, report.IdempotencyKey); existing != nil {
		return existing.Clone(), false, nil
	}
	if r.indexOf(report.ID) >= 0 {
		return nil, false, fmt.Errorf("create report: duplicate id %q", report.ID)
	}
	r.reports = append([]*domain.Report{report.Clone()}, r.reports...)
	return report.Clone(), true, nil
}

func (r *ReportRepository) Get(_ context.Context, id string) (*domain.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.reports[i].Clone(), true, nil
	}
	return nil, false, nil
}

func (r *ReportRepository) GetByOwner(_ context.Context, userID string) ([]*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Report, 0)
	for _, rep := range r.reports {
		if rep.UserID == userID {
			out = append(out, rep.Clone())
		}
	}
	return out, nil
}

func (r *ReportRepository) GetAll(_ context.Context) ([]*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Report, len(r.reports))
	for i, rep := range r.reports {
		out[i] = rep.Clone()
	}
	return out, nil
}

// Update runs fn on a copy under the write lock and commits the copy only
// when fn succeeds.
func (r *ReportRepository) Update(_ context.Context, id string, fn func(*domain.Report) error) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrReportNotFound
	}
	working := r.reports[i].Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.reports[i] = working
	return working.Clone(), nil
}

func (r *ReportRepository) FindByIdempotencyKey(_ context.Context, ownerID, key string) (*domain.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rep := r.findByKey(ownerID, key); rep != nil {
		return rep.Clone(), true, nil
	}
	return nil, false, nil
}

// findByKey returns the oldest report ownerID created with key. An empty
// key never matches. Must be called with mu held.
func (r *ReportRepository) findByKey(ownerID, key string) *domain.Report {
	if key == "" {
		return nil
	}
	for i := len(r.reports) - 1; i >= 0; i-- {
		if rep := r.reports[i]; rep.UserID == ownerID && rep.IdempotencyKey == key {
			return rep
		}
	}
	return nil
}

// indexOf must be called with mu held.
func (r *ReportRepository) indexOf(id string) int {
	for i, rep := range r.reports {
		if rep.ID == id {
			return i
		}
	}
	return -1
}
