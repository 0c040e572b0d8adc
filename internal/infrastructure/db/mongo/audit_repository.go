package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/woundashare/report-service/internal/core/domain"
)

const auditCollection = "report_audit_events"

// AuditRepository appends report lifecycle events to the
// report_audit_events collection.
type AuditRepository struct {
	db  *mongo.Database
	now func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db, now: time.Now}
}

// EnsureIndexes creates the (report_id, at) index used to read a report's
// history in order.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "report_id", Value: 1}, {Key: "at", Value: 1}},
		Options: options.Index().SetName("report_id_at"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

// Write persists a single audit event.
func (r *AuditRepository) Write(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"report_id":   event.ReportID,
		"action":      string(event.Action),
		"actor_id":    event.ActorID,
		"status":      string(event.Status),
		"at":          event.At.UTC(),
		"recorded_at": r.now().UTC(),
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
