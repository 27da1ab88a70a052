package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	TeamMemberID *uuid.UUID `db:"team_member_id" json:"team_member_id,omitempty"`
	At           time.Time  `db:"appointment_date" json:"appointment_date"`
	Location     *string    `db:"location" json:"location,omitempty"`
	Purpose      *string    `db:"purpose" json:"purpose,omitempty"`
	Status       string     `db:"status" json:"status"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// NextAppointment is the calendar-card view: the soonest upcoming
// appointment joined with its doctor and patient.
type NextAppointment struct {
	Appointment
	DoctorName       *string `json:"doctor_name,omitempty"`
	DoctorRole       *string `json:"doctor_role,omitempty"`
	DoctorDepartment *string `json:"doctor_specialty,omitempty"`
	PatientFirstName string  `json:"patient_first_name"`
	PatientLastName  string  `json:"patient_last_name"`
	PatientBirthDate string  `json:"patient_dob"`
	PatientAge       int     `json:"patient_age"`
}
