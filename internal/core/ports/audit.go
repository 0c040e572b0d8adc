package ports

import (
	"context"

	"github.com/woundashare/report-service/internal/core/domain"
)

// AuditSink persists audit events.
type AuditSink interface {
	Write(ctx context.Context, event *domain.AuditEvent) error
}

// AuditPublisher accepts audit events for asynchronous delivery.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}
