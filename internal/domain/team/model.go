package team

import (
	"time"

	"github.com/google/uuid"
)

// Member maps to the team_member table.
type Member struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	Department   *string   `db:"department" json:"department,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	PhotoURL     *string   `db:"photo_url" json:"photo_url,omitempty"`
	ProfileNotes *string   `db:"profile_notes" json:"profile_notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Assignment maps to the patient_team table: one care-team membership of a
// team member for a patient.
type Assignment struct {
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	TeamMemberID uuid.UUID `db:"team_member_id" json:"team_member_id"`
	Relationship *string   `db:"relationship" json:"relationship,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PatientTeamMember is a team member joined with their assignment to a
// specific patient, as shown on the "my medical team" pages.
type PatientTeamMember struct {
	Member
	Relationship *string `json:"relationship,omitempty"`
	PatientNotes *string `json:"patient_notes,omitempty"`
}
