package domain

import (
	"fmt"
	"time"
)

// ReportStatus represents the lifecycle state of a wound report.
type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusCompleted ReportStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
// completed is terminal.
var validTransitions = map[ReportStatus][]ReportStatus{
	StatusPending: {StatusCompleted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

const (
	MinPainLevel = 0
	MaxPainLevel = 10
)

// Medication is a single line of a prescription.
type Medication struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

// Prescription is the admin-authored assessment attached to a report.
type Prescription struct {
	ID           string
	ReportID     string
	CreatedAt    time.Time
	Diagnosis    string
	Treatment    string
	Medications  []Medication
	FollowUpDate *time.Time
	DoctorNotes  string
}

// Report is the core aggregate root: a patient-submitted wound record.
type Report struct {
	ID          string
	UserID      string
	UserName    string // owner's display name at submission time, never refreshed
	CreatedAt   time.Time
	Status      ReportStatus
	Title       string
	Description string
	ImageURL    string
	Location    string
	PainLevel   int
	// Prescription is non-nil iff Status is StatusCompleted.
	Prescription   *Prescription
	IdempotencyKey string
}

// AttachPrescription moves the report to completed and stores p.
// A completed report keeps its status and has its prescription replaced;
// the replaced prescription is returned.
func (r *Report) AttachPrescription(p *Prescription) (*Prescription, error) {
	if r.Status != StatusCompleted && !r.Status.CanTransitionTo(StatusCompleted) {
		return nil, fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, r.Status, StatusCompleted)
	}
	prev := r.Prescription
	r.Prescription = p
	r.Status = StatusCompleted
	return prev, nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	if r.Prescription != nil {
		p := *r.Prescription
		p.Medications = append([]Medication(nil), r.Prescription.Medications...)
		if r.Prescription.FollowUpDate != nil {
			d := *r.Prescription.FollowUpDate
			p.FollowUpDate = &d
		}
		c.Prescription = &p
	}
	return &c
}
