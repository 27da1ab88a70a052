package dashboard

import (
	"github.com/kidscare/portal/internal/domain/appointment"
	"github.com/kidscare/portal/internal/domain/medicine"
	"github.com/kidscare/portal/internal/domain/patient"
	"github.com/kidscare/portal/internal/domain/team"
)

// PatientDashboard is the full care picture for one patient, assembled for
// both the admin view and the parent view.
type PatientDashboard struct {
	Patient      *patient.Summary           `json:"patient"`
	Appointments []*appointment.Appointment `json:"appointments"`
	Medicines    []*medicine.Medicine       `json:"medicines"`
	MedicalTeam  []*team.PatientTeamMember  `json:"medical_team"`
}

// Admission is returned once after admitting a patient. The temporary
// password is never stored in cleartext and never shown again.
type Admission struct {
	Patient      *patient.Patient `json:"patient"`
	Username     string           `json:"username"`
	TempPassword string           `json:"temp_password"`
}
