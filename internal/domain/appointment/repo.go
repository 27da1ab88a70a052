package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	NextUpcoming(ctx context.Context, patientID uuid.UUID) (*NextAppointment, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
