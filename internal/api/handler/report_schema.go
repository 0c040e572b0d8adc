package handler

import (
	"strings"
	"time"

	"github.com/woundashare/report-service/internal/core/domain"
)

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      *domain.Principal `json:"user"`
}

// --- Reports ---

type createReportRequest struct {
	Title       string `json:"title"       validate:"required,min=5"`
	Description string `json:"description" validate:"required,min=20"`
	ImageURL    string `json:"imageUrl"    validate:"required"`
	Location    string `json:"location"    validate:"required,min=3"`
	// PainLevel is a pointer so a missing value is distinguishable from 0.
	PainLevel *int `json:"painLevel" validate:"required"`
}

// normalize trims the free-text fields so the length rules apply to the
// text that is stored.
func (r *createReportRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.Location = strings.TrimSpace(r.Location)
}

type medicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// createPrescriptionRequest is checked by the store, so a missing report is
// reported before any field error.
type createPrescriptionRequest struct {
	Diagnosis    string              `json:"diagnosis"`
	Treatment    string              `json:"treatment"`
	Medications  []medicationRequest `json:"medications"`
	FollowUpDate string              `json:"followUpDate,omitempty"`
	DoctorNotes  string              `json:"doctorNotes,omitempty"`
}

type medicationResponse struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type prescriptionResponse struct {
	ID           string               `json:"id"`
	ReportID     string               `json:"reportId"`
	CreatedAt    time.Time            `json:"createdAt"`
	Diagnosis    string               `json:"diagnosis"`
	Treatment    string               `json:"treatment"`
	Medications  []medicationResponse `json:"medications"`
	FollowUpDate *time.Time           `json:"followUpDate,omitempty"`
	DoctorNotes  string               `json:"doctorNotes,omitempty"`
}

type reportResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	UserName     string                `json:"userName"`
	CreatedAt    time.Time             `json:"createdAt"`
	Status       string                `json:"status"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	ImageURL     string                `json:"imageUrl"`
	Location     string                `json:"location"`
	PainLevel    int                   `json:"painLevel"`
	Prescription *prescriptionResponse `json:"prescription,omitempty"`
}

type listReportsResponse struct {
	Reports []reportResponse `json:"reports"`
	Count   int              `json:"count"`
}

type statsResponse struct {
	Total     int              `json:"total"`
	Pending   int              `json:"pending"`
	Completed int              `json:"completed"`
	Recent    []reportResponse `json:"recent"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// --- Routes ---

type routeDecisionResponse struct {
	Path     string `json:"path"`
	Access   string `json:"access"`
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}
