// Package policy decides who may view or mutate reports and which front-end
// routes need an authenticated or admin principal.
//
// Every function is pure and synchronous. A denial is a false result, never
// an error; callers turn it into a redirect or a 401/403.
package policy

import "github.com/woundashare/report-service/internal/core/domain"

// CanViewReport reports whether p may read r: admins see everything,
// patients only their own reports.
func CanViewReport(p *domain.Principal, r *domain.Report) bool {
	if p == nil || r == nil {
		return false
	}
	return p.IsAdmin || p.ID == r.UserID
}

// CanCreatePrescription reports whether p may review reports.
func CanCreatePrescription(p *domain.Principal) bool {
	return p != nil && p.IsAdmin
}

// CanListAllReports reports whether p may read the unscoped report listing.
func CanListAllReports(p *domain.Principal) bool {
	return p != nil && p.IsAdmin
}
