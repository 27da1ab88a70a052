package team

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)
	Assign(ctx context.Context, a *Assignment) error
	UpdateAssignment(ctx context.Context, a *Assignment) error
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientTeamMember, error)
	UnassignPatient(ctx context.Context, patientID uuid.UUID) error
}
