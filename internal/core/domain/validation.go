package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinDiagnosisLength      = 10
	MinTreatmentLength      = 20
	MinMedicationNameLength = 2
)

// ValidationResult is the tagged outcome of a validation function: either OK
// or carrying the first failing field.
type ValidationResult struct {
	failure *ValidationError
}

func valid() ValidationResult { return ValidationResult{} }

func invalid(field, reason string) ValidationResult {
	return ValidationResult{failure: &ValidationError{Field: field, Reason: reason}}
}

// OK reports whether validation passed.
func (r ValidationResult) OK() bool { return r.failure == nil }

// Field returns the failing field name, or "" when OK.
func (r ValidationResult) Field() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Field
}

// Err returns nil when OK, otherwise a *ValidationError.
func (r ValidationResult) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// NewReport carries the caller-supplied fields of a report submission.
type NewReport struct {
	OwnerID     string
	OwnerName   string
	Title       string
	Description string
	ImageURL    string
	Location    string
	PainLevel   int
}

// ValidateNewReport checks the store-level rules for report creation.
func ValidateNewReport(in NewReport) ValidationResult {
	if in.PainLevel < MinPainLevel || in.PainLevel > MaxPainLevel {
		return invalid("painLevel", fmt.Sprintf("must be between %d and %d", MinPainLevel, MaxPainLevel))
	}
	return valid()
}

// NewPrescription carries the admin-supplied fields of a prescription.
type NewPrescription struct {
	Diagnosis    string
	Treatment    string
	Medications  []Medication
	FollowUpDate *time.Time
	DoctorNotes  string
}

// ValidateNewPrescription checks a prescription and names the first failing field.
func ValidateNewPrescription(in NewPrescription) ValidationResult {
	if utf8.RuneCountInString(in.Diagnosis) < MinDiagnosisLength {
		return invalid("diagnosis", fmt.Sprintf("must be at least %d characters", MinDiagnosisLength))
	}
	if utf8.RuneCountInString(in.Treatment) < MinTreatmentLength {
		return invalid("treatment", fmt.Sprintf("must be at least %d characters", MinTreatmentLength))
	}
	if len(in.Medications) == 0 {
		return invalid("medications", "must contain at least one medication")
	}
	for i, m := range in.Medications {
		if utf8.RuneCountInString(strings.TrimSpace(m.Name)) < MinMedicationNameLength {
			return invalid(fmt.Sprintf("medications[%d].name", i), fmt.Sprintf("must be at least %d characters", MinMedicationNameLength))
		}
		for _, f := range []struct{ name, value string }{
			{"dosage", m.Dosage},
			{"frequency", m.Frequency},
			{"duration", m.Duration},
		} {
			if strings.TrimSpace(f.value) == "" {
				return invalid(fmt.Sprintf("medications[%d].%s", i, f.name), "is required")
			}
		}
	}
	return valid()
}
