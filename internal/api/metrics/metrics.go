// Package metrics defines and registers the custom Prometheus metrics of the
// WoundaShare report service. Metrics register with the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "woundashare"

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsCreatedTotal counts report submissions.
// Label:
//   - result: "created" or "replayed" (idempotent resubmission)
var ReportsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_created_total",
		Help:      "Total number of wound reports submitted.",
	},
	[]string{"result"},
)

// PrescriptionsAttachedTotal counts successful prescription attachments,
// including overwrites of an existing prescription.
var PrescriptionsAttachedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prescriptions_attached_total",
		Help:      "Total number of prescriptions attached to reports.",
	},
)

// StoreOperationDuration measures report store calls, simulated latency
// included.
// Label:
//   - op: store operation name (e.g. "create", "attach", "list")
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of report store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts that reached the credential check.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - scope: the limited endpoint group (e.g. "login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting.",
	},
	[]string{"scope"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit event deliveries.
// Labels:
//   - action: report_created, prescription_attached, prescription_replaced
//   - result: "ok", "error" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events handled by the dispatcher.",
	},
	[]string{"action", "result"},
)

// AuditRecorder feeds dispatcher outcomes into AuditEventsTotal.
type AuditRecorder struct{}

func (AuditRecorder) AuditEvent(action, result string) {
	AuditEventsTotal.WithLabelValues(action, result).Inc()
}
