package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kidscare/portal/internal/domain/patient"
)

// -- Mock Repositories --

type mockUserRepo struct {
	users    map[uuid.UUID]*User
	children map[uuid.UUID][]*patient.Patient
	failWith error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[uuid.UUID]*User),
		children: make(map[uuid.UUID][]*patient.Patient),
	}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	for id, u := range m.users {
		if u.PatientID != nil && *u.PatientID == patientID {
			delete(m.users, id)
		}
	}
	return nil
}

func (m *mockUserRepo) LinkChild(_ context.Context, parentUserID, patientID uuid.UUID) error {
	m.children[parentUserID] = append(m.children[parentUserID], &patient.Patient{ID: patientID})
	return nil
}

func (m *mockUserRepo) ChildrenForParent(_ context.Context, parentUserID uuid.UUID) ([]*patient.Patient, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.children[parentUserID], nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
	failWith error
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *patient.Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	var result []*patient.Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockPatientRepo) Search(_ context.Context, query string, limit int) ([]*patient.Patient, error) {
	return nil, nil
}

// -- Fixture --

type fixture struct {
	svc      *Service
	users    *mockUserRepo
	patients *mockPatientRepo
}

// loginDay is the fixed reference date for age computation in these tests.
var loginDay = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	svc := NewService(users, patients, zerolog.Nop(), Options{BcryptCost: bcrypt.MinCost})
	svc.now = func() time.Time { return loginDay }
	return &fixture{svc: svc, users: users, patients: patients}
}

func (f *fixture) addUser(t *testing.T, username, password string, role Role, patientID *uuid.UUID) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &User{Username: username, PasswordHash: string(hash), Role: role, PatientID: patientID}
	if err := f.users.Create(nil, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) addPatient(t *testing.T, first, last string, born time.Time) *patient.Patient {
	t.Helper()
	p := &patient.Patient{FirstName: first, LastName: last, BirthDate: born}
	if err := f.patients.Create(nil, p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

// -- Authenticate --

func TestAuthenticate_PatientLogin(t *testing.T) {
	f := newFixture()
	p := f.addPatient(t, "John", "Doe", time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addUser(t, "john_doe", "s3cret", RolePatient, &p.ID)

	res, err := f.svc.Authenticate(context.Background(), "john_doe", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Role != RolePatient {
		t.Errorf("expected role patient, got %s", res.Role)
	}
	if res.CanAccessAdmin {
		t.Error("patient must not get admin access")
	}
	if res.Patient == nil {
		t.Fatal("expected a patient session")
	}
	if res.Parent != nil {
		t.Error("patient login must not carry a parent session")
	}
	// Birthday is the login day: the new age counts.
	if res.Patient.Age != 9 {
		t.Errorf("expected age 9, got %d", res.Patient.Age)
	}
	if res.Patient.AgeGroup != patient.AgeGroupTween {
		t.Errorf("expected age group %q, got %q", patient.AgeGroupTween, res.Patient.AgeGroup)
	}
	if res.Patient.Profile == nil || res.Patient.Profile.ID != p.ID {
		t.Error("expected the linked profile")
	}
}

func TestAuthenticate_ParentLogin(t *testing.T) {
	f := newFixture()
	parent := f.addUser(t, "mom", "pw", RoleParent, nil)
	kid1 := f.addPatient(t, "Mia", "Park", time.Date(2021, time.April, 2, 0, 0, 0, 0, time.UTC))
	kid2 := f.addPatient(t, "Leo", "Park", time.Date(2014, time.March, 10, 0, 0, 0, 0, time.UTC))
	f.users.LinkChild(nil, parent.ID, kid1.ID)
	f.users.LinkChild(nil, parent.ID, kid2.ID)

	res, err := f.svc.Authenticate(context.Background(), "mom", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Parent == nil {
		t.Fatal("expected a parent session")
	}
	if res.Patient != nil {
		t.Error("parent login must not carry a patient session")
	}
	if len(res.Parent.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(res.Parent.Children))
	}
	if res.CanAccessAdmin {
		t.Error("parent must not get admin access")
	}
}

func TestAuthenticate_ParentWithNoChildren(t *testing.T) {
	f := newFixture()
	f.addUser(t, "mom", "pw", RoleParent, nil)

	res, err := f.svc.Authenticate(context.Background(), "mom", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Parent == nil {
		t.Fatal("expected a parent session")
	}
	// Empty list, never nil: "no children" is a valid state, not an error.
	if res.Parent.Children == nil {
		t.Error("children must be an empty list, not nil")
	}
	if len(res.Parent.Children) != 0 {
		t.Errorf("expected no children, got %d", len(res.Parent.Children))
	}
}

func TestAuthenticate_StaffRoles(t *testing.T) {
	f := newFixture()
	for _, role := range []Role{RoleDoctor, RoleNurse, RoleAdmin} {
		f.addUser(t, string(role)+"_user", "pw", role, nil)

		res, err := f.svc.Authenticate(context.Background(), string(role)+"_user", "pw")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", role, err)
		}
		if !res.CanAccessAdmin {
			t.Errorf("%s: expected admin access", role)
		}
		if res.Patient != nil || res.Parent != nil {
			t.Errorf("%s: staff login must carry no role payload", role)
		}
	}
}

func TestAuthenticate_ElevatedRolesConfigurable(t *testing.T) {
	f := newFixture()
	users := f.users
	svc := NewService(users, f.patients, zerolog.Nop(), Options{
		ElevatedRoles: []string{"doctor"},
		BcryptCost:    bcrypt.MinCost,
	})
	f.svc = svc
	f.addUser(t, "nina", "pw", RoleNurse, nil)

	res, err := svc.Authenticate(context.Background(), "nina", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CanAccessAdmin {
		t.Error("nurse is not elevated under this policy")
	}
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	f := newFixture()
	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"bob", ""},
		{"", ""},
	} {
		_, err := f.svc.Authenticate(context.Background(), tc.username, tc.password)
		if KindOf(err) != KindValidation {
			t.Errorf("(%q,%q): expected validation error, got %v", tc.username, tc.password, err)
		}
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Authenticate(context.Background(), "ghost", "pw")
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	f := newFixture()
	p := f.addPatient(t, "John", "Doe", time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addUser(t, "john_doe", "s3cret", RolePatient, &p.ID)

	_, err := f.svc.Authenticate(context.Background(), "john_doe", "wrong")
	if KindOf(err) != KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	f := newFixture()
	f.users.failWith = errors.New("connection refused")

	_, err := f.svc.Authenticate(context.Background(), "john_doe", "pw")
	if KindOf(err) != KindDependency {
		t.Errorf("expected dependency error, got %v", err)
	}
	// Store failure is never reported as an authentication failure.
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		t.Error("dependency failure misclassified as auth failure")
	}
}

func TestAuthenticate_PatientProfileLookupFailure(t *testing.T) {
	f := newFixture()
	p := f.addPatient(t, "John", "Doe", time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addUser(t, "john_doe", "s3cret", RolePatient, &p.ID)
	f.patients.failWith = errors.New("connection refused")

	_, err := f.svc.Authenticate(context.Background(), "john_doe", "s3cret")
	if KindOf(err) != KindDependency {
		t.Errorf("expected dependency error, got %v", err)
	}
}

func TestAuthenticate_PatientWithoutLinkedProfile(t *testing.T) {
	f := newFixture()
	// Data defect: a patient credential with no profile link.
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	u := &User{Username: "orphan", PasswordHash: string(hash), Role: RolePatient}
	f.users.Create(nil, u)

	_, err := f.svc.Authenticate(context.Background(), "orphan", "pw")
	if KindOf(err) != KindDependency {
		t.Errorf("expected dependency error, got %v", err)
	}
}

func TestAuthenticate_Idempotent(t *testing.T) {
	f := newFixture()
	p := f.addPatient(t, "John", "Doe", time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addUser(t, "john_doe", "s3cret", RolePatient, &p.ID)

	first, err := f.svc.Authenticate(context.Background(), "john_doe", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.Authenticate(context.Background(), "john_doe", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.UserID != second.UserID || first.Patient.Age != second.Patient.Age ||
		first.Patient.AgeGroup != second.Patient.AgeGroup {
		t.Error("repeated logins must resolve identically")
	}
}

// -- CreateUser / LinkChild --

func TestCreateUser_HashesPassword(t *testing.T) {
	f := newFixture()
	u, err := f.svc.CreateUser(context.Background(), "drsmith", "pw", RoleDoctor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.PasswordHash == "pw" {
		t.Error("password stored in cleartext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw")); err != nil {
		t.Error("stored hash does not verify")
	}
}

func TestCreateUser_PatientLinkInvariant(t *testing.T) {
	f := newFixture()
	pid := uuid.New()

	if _, err := f.svc.CreateUser(context.Background(), "p1", "pw", RolePatient, nil); err == nil {
		t.Error("patient account without patient_id must be rejected")
	}
	if _, err := f.svc.CreateUser(context.Background(), "d1", "pw", RoleDoctor, &pid); err == nil {
		t.Error("staff account with patient_id must be rejected")
	}
	if _, err := f.svc.CreateUser(context.Background(), "p2", "pw", RolePatient, &pid); err != nil {
		t.Errorf("valid patient account rejected: %v", err)
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.CreateUser(context.Background(), "x", "pw", Role("superuser"), nil); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestLinkChild_RequiresParentRole(t *testing.T) {
	f := newFixture()
	doc := f.addUser(t, "drsmith", "pw", RoleDoctor, nil)
	if err := f.svc.LinkChild(context.Background(), doc.ID, uuid.New()); err == nil {
		t.Error("linking a child to a non-parent account must fail")
	}
}

func TestTempPassword(t *testing.T) {
	a, err := TempPassword()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := TempPassword()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 24 {
		t.Errorf("expected 24 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("temporary passwords must not repeat")
	}
}
