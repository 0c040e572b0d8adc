package domain

import "time"

// AuditAction names a lifecycle change recorded in the audit trail.
type AuditAction string

const (
	AuditReportCreated        AuditAction = "report_created"
	AuditPrescriptionAttached AuditAction = "prescription_attached"
	AuditPrescriptionReplaced AuditAction = "prescription_replaced"
)

// AuditEvent records a single report lifecycle change.
type AuditEvent struct {
	ReportID string
	Action   AuditAction
	ActorID  string
	Status   ReportStatus
	At       time.Time
	// Detail holds the new prescription id, or for replacements the
	// replaced one as "replaced=<id>".
	Detail string
}
