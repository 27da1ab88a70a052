package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	members Repository
}

func NewService(members Repository) *Service {
	return &Service{members: members}
}

func (s *Service) CreateMember(ctx context.Context, m *Member) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Role == "" {
		return fmt.Errorf("role is required")
	}
	return s.members.Create(ctx, m)
}

func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.members.GetByID(ctx, id)
}

func (s *Service) UpdateMember(ctx context.Context, m *Member) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Role == "" {
		return fmt.Errorf("role is required")
	}
	return s.members.Update(ctx, m)
}

func (s *Service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.members.Delete(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.members.List(ctx, limit, offset)
}

// Assign adds a team member to a patient's care team. Assigning the same
// pair twice is a no-op.
func (s *Service) Assign(ctx context.Context, a *Assignment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.TeamMemberID == uuid.Nil {
		return fmt.Errorf("team_member_id is required")
	}
	return s.members.Assign(ctx, a)
}

func (s *Service) UpdateAssignment(ctx context.Context, a *Assignment) error {
	if a.PatientID == uuid.Nil || a.TeamMemberID == uuid.Nil {
		return fmt.Errorf("patient_id and team_member_id are required")
	}
	return s.members.UpdateAssignment(ctx, a)
}

// ListForPatient returns the patient's care team ordered by member name.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientTeamMember, error) {
	return s.members.ListForPatient(ctx, patientID)
}
