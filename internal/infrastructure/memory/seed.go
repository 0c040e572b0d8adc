package memory

import (
	"time"

	"github.com/woundashare/report-service/internal/core/domain"
)

// SeedReports returns the demo reports relative to now: one reviewed and
// one still pending, both owned by the demo patient.
func SeedReports(now time.Time) []*domain.Report {
	now = now.UTC()
	followUp := now.Add(7 * 24 * time.Hour)

	return []*domain.Report{
		{
			ID:          "1",
			UserID:      "user-1",
			UserName:    "Demo Patient",
			CreatedAt:   now.Add(-72 * time.Hour),
			Status:      domain.StatusCompleted,
			Title:       "Cut on left forearm",
			Description: "Accidental cut while cooking. Wound is about 2cm long and bled for a few minutes.",
			ImageURL:    "/placeholder.svg",
			Location:    "Left forearm",
			PainLevel:   4,
			Prescription: &domain.Prescription{
				ID:        "p1",
				ReportID:  "1",
				CreatedAt: now.Add(-48 * time.Hour),
				Diagnosis: "Minor laceration, no signs of infection",
				Treatment: "Clean the wound twice daily with saline solution and keep it covered with a sterile dressing.",
				Medications: []domain.Medication{
					{Name: "Ibuprofen", Dosage: "400mg", Frequency: "Every 8 hours as needed", Duration: "5 days"},
					{Name: "Antibiotic ointment", Dosage: "Thin layer", Frequency: "Twice daily", Duration: "7 days"},
				},
				FollowUpDate: &followUp,
				DoctorNotes:  "Return if redness, swelling or discharge appears.",
			},
		},
		{
			ID:          "2",
			UserID:      "user-1",
			UserName:    "Demo Patient",
			CreatedAt:   now.Add(-24 * time.Hour),
			Status:      domain.StatusPending,
			Title:       "Scrape on right knee",
			Description: "Fell while running on gravel. Surface abrasion with some embedded dirt.",
			ImageURL:    "/placeholder.svg",
			Location:    "Right knee",
			PainLevel:   3,
		},
	}
}
