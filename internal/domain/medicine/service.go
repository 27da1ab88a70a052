package medicine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	medicines Repository
}

func NewService(medicines Repository) *Service {
	return &Service{medicines: medicines}
}

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("medicine_name is required")
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("end_date cannot precede start_date")
	}
	return s.medicines.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("medicine_name is required")
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("end_date cannot precede start_date")
	}
	return s.medicines.Update(ctx, m)
}

func (s *Service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	return s.medicines.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medicine, error) {
	return s.medicines.ListByPatient(ctx, patientID)
}

// ListByPatientWithDetails returns the schedule view with patient name and
// age joined in.
func (s *Service) ListByPatientWithDetails(ctx context.Context, patientID uuid.UUID) ([]*PatientMedicine, error) {
	return s.medicines.ListByPatientWithDetails(ctx, patientID)
}
