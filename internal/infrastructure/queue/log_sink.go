package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/core/domain"
)

// LogSink writes audit events to the structured log.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Write(_ context.Context, event *domain.AuditEvent) error {
	entry := s.log.Info().
		Str("report_id", event.ReportID).
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("status", string(event.Status)).
		Time("at", event.At)
	if event.Detail != "" {
		entry = entry.Str("detail", event.Detail)
	}
	entry.Msg("audit")
	return nil
}
