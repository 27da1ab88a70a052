package medicine

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medicine, error)
	ListByPatientWithDetails(ctx context.Context, patientID uuid.UUID) ([]*PatientMedicine, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
