package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/kidscare/portal/internal/domain/patient"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	LinkChild(ctx context.Context, parentUserID, patientID uuid.UUID) error
	ChildrenForParent(ctx context.Context, parentUserID uuid.UUID) ([]*patient.Patient, error)
}
