package team

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -- Mock Repository --

type assignKey struct {
	patientID    uuid.UUID
	teamMemberID uuid.UUID
}

type mockRepo struct {
	members     map[uuid.UUID]*Member
	assignments map[assignKey]*Assignment
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		members:     make(map[uuid.UUID]*Member),
		assignments: make(map[assignKey]*Assignment),
	}
}

func (m *mockRepo) Create(_ context.Context, mem *Member) error {
	mem.ID = uuid.New()
	mem.CreatedAt = time.Now()
	mem.UpdatedAt = time.Now()
	m.members[mem.ID] = mem
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return mem, nil
}

func (m *mockRepo) Update(_ context.Context, mem *Member) error {
	m.members[mem.ID] = mem
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.members, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Member, int, error) {
	var result []*Member
	for _, mem := range m.members {
		result = append(result, mem)
	}
	return result, len(result), nil
}

func (m *mockRepo) Assign(_ context.Context, a *Assignment) error {
	key := assignKey{a.PatientID, a.TeamMemberID}
	if _, ok := m.assignments[key]; ok {
		return nil
	}
	m.assignments[key] = a
	return nil
}

func (m *mockRepo) UpdateAssignment(_ context.Context, a *Assignment) error {
	key := assignKey{a.PatientID, a.TeamMemberID}
	if _, ok := m.assignments[key]; !ok {
		return pgx.ErrNoRows
	}
	m.assignments[key] = a
	return nil
}

func (m *mockRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*PatientTeamMember, error) {
	var result []*PatientTeamMember
	for key, a := range m.assignments {
		if key.patientID != patientID {
			continue
		}
		mem, ok := m.members[key.teamMemberID]
		if !ok {
			continue
		}
		result = append(result, &PatientTeamMember{
			Member:       *mem,
			Relationship: a.Relationship,
			PatientNotes: a.Notes,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockRepo) UnassignPatient(_ context.Context, patientID uuid.UUID) error {
	for key := range m.assignments {
		if key.patientID == patientID {
			delete(m.assignments, key)
		}
	}
	return nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreateMember(t *testing.T) {
	svc := newTestService()
	m := &Member{Name: "Dr. Ada Osei", Role: "doctor"}
	if err := svc.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected an assigned ID")
	}
}

func TestCreateMember_NameRequired(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateMember(context.Background(), &Member{Role: "nurse"}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestAssign_Idempotent(t *testing.T) {
	svc := newTestService()
	m := &Member{Name: "Dr. Ada Osei", Role: "doctor"}
	svc.CreateMember(context.Background(), m)

	pid := uuid.New()
	a := &Assignment{PatientID: pid, TeamMemberID: m.ID}
	if err := svc.Assign(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Assign(context.Background(), a); err != nil {
		t.Fatalf("repeat assign must be a no-op: %v", err)
	}

	members, err := svc.ListForPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("expected 1 care team member, got %d", len(members))
	}
}

func TestAssign_RequiresIDs(t *testing.T) {
	svc := newTestService()
	if err := svc.Assign(context.Background(), &Assignment{TeamMemberID: uuid.New()}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if err := svc.Assign(context.Background(), &Assignment{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for missing team_member_id")
	}
}

func TestUpdateAssignment_NotFound(t *testing.T) {
	svc := newTestService()
	a := &Assignment{PatientID: uuid.New(), TeamMemberID: uuid.New()}
	if err := svc.UpdateAssignment(context.Background(), a); err != pgx.ErrNoRows {
		t.Errorf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestListForPatient_OrderedByName(t *testing.T) {
	svc := newTestService()
	zoe := &Member{Name: "Zoe Lang", Role: "nurse"}
	ada := &Member{Name: "Ada Osei", Role: "doctor"}
	svc.CreateMember(context.Background(), zoe)
	svc.CreateMember(context.Background(), ada)

	pid := uuid.New()
	svc.Assign(context.Background(), &Assignment{PatientID: pid, TeamMemberID: zoe.ID})
	svc.Assign(context.Background(), &Assignment{PatientID: pid, TeamMemberID: ada.ID})

	members, err := svc.ListForPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 || members[0].Name != "Ada Osei" {
		t.Error("expected members ordered by name")
	}
}
