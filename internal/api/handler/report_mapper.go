package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createReportRequest, owner *domain.Principal, idempotencyKey string) ports.CreateReportInput {
	painLevel := 0
	if req.PainLevel != nil {
		painLevel = *req.PainLevel
	}
	return ports.CreateReportInput{
		OwnerID:        owner.ID,
		OwnerName:      owner.Name,
		Title:          req.Title,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Location:       req.Location,
		PainLevel:      painLevel,
		IdempotencyKey: idempotencyKey,
	}
}

func toAttachInput(req createPrescriptionRequest, reportID, actorID string) (ports.AttachPrescriptionInput, error) {
	followUp, err := parseFollowUpDate(req.FollowUpDate)
	if err != nil {
		return ports.AttachPrescriptionInput{}, err
	}

	meds := make([]ports.MedicationInput, len(req.Medications))
	for i, m := range req.Medications {
		meds[i] = ports.MedicationInput{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		}
	}

	return ports.AttachPrescriptionInput{
		ReportID:     reportID,
		ActorID:      actorID,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Medications:  meds,
		FollowUpDate: followUp,
		DoctorNotes:  req.DoctorNotes,
	}, nil
}

// parseFollowUpDate accepts a calendar date (2006-01-02) or an RFC 3339
// timestamp. Empty means no follow-up.
func parseFollowUpDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Field: "followUpDate", Reason: "must be a date (YYYY-MM-DD)"}
}

// parseListQuery reads the status, search and sort query parameters.
func parseListQuery(c echo.Context) (ports.ListReportsInput, error) {
	in := ports.ListReportsInput{
		Status: strings.ToLower(strings.TrimSpace(c.QueryParam("status"))),
		Search: c.QueryParam("search"),
		Sort:   ports.SortOrder(strings.ToLower(strings.TrimSpace(c.QueryParam("sort")))),
	}

	switch in.Status {
	case "", "all", string(domain.StatusPending), string(domain.StatusCompleted):
	default:
		return in, &domain.ValidationError{Field: "status", Reason: "must be one of: all pending completed"}
	}
	switch in.Sort {
	case "":
		in.Sort = ports.SortNewest
	case ports.SortNewest, ports.SortOldest:
	default:
		return in, &domain.ValidationError{Field: "sort", Reason: "must be one of: newest oldest"}
	}
	return in, nil
}

// --- Domain → Response ---

func toReportResponse(r *domain.Report) reportResponse {
	resp := reportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		CreatedAt:   r.CreatedAt.UTC(),
		Status:      string(r.Status),
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Location:    r.Location,
		PainLevel:   r.PainLevel,
	}
	if p := r.Prescription; p != nil {
		meds := make([]medicationResponse, len(p.Medications))
		for i, m := range p.Medications {
			meds[i] = medicationResponse{Name: m.Name, Dosage: m.Dosage, Frequency: m.Frequency, Duration: m.Duration}
		}
		resp.Prescription = &prescriptionResponse{
			ID:           p.ID,
			ReportID:     p.ReportID,
			CreatedAt:    p.CreatedAt.UTC(),
			Diagnosis:    p.Diagnosis,
			Treatment:    p.Treatment,
			Medications:  meds,
			FollowUpDate: p.FollowUpDate,
			DoctorNotes:  p.DoctorNotes,
		}
	}
	return resp
}

func toReportResponses(reports []*domain.Report) []reportResponse {
	out := make([]reportResponse, len(reports))
	for i, r := range reports {
		out[i] = toReportResponse(r)
	}
	return out
}
