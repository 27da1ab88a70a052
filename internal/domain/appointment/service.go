package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	appointments Repository
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments}
}

var validStatuses = map[string]bool{
	StatusUpcoming: true, StatusCompleted: true, StatusCancelled: true,
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.At.IsZero() {
		return fmt.Errorf("appointment_date is required")
	}
	if a.Status == "" {
		a.Status = StatusUpcoming
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

// NextUpcoming returns the patient's soonest upcoming appointment, or nil
// when there is none scheduled.
func (s *Service) NextUpcoming(ctx context.Context, patientID uuid.UUID) (*NextAppointment, error) {
	return s.appointments.NextUpcoming(ctx, patientID)
}
