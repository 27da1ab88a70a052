package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Medicine maps to the medicine table.
type Medicine struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name         string     `db:"medicine_name" json:"medicine_name"`
	Dosage       *string    `db:"dosage" json:"dosage,omitempty"`
	Frequency    *string    `db:"frequency" json:"frequency,omitempty"`
	StartDate    *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	PrescribedBy *string    `db:"prescribed_by" json:"prescribed_by,omitempty"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PatientMedicine is a medicine row joined with the patient it belongs to,
// as rendered on the medicine schedule pages.
type PatientMedicine struct {
	Medicine
	PatientFirstName string `json:"patient_first_name"`
	PatientLastName  string `json:"patient_last_name"`
	PatientBirthDate string `json:"patient_dob"`
	PatientAge       int    `json:"patient_age"`
}
