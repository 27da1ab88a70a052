package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kidscare/portal/internal/domain/appointment"
	"github.com/kidscare/portal/internal/domain/auth"
	"github.com/kidscare/portal/internal/domain/medicine"
	"github.com/kidscare/portal/internal/domain/patient"
	"github.com/kidscare/portal/internal/domain/team"
)

// ErrNoChildren is returned when a parent account has no linked patients.
var ErrNoChildren = errors.New("no linked children")

// TxRunner runs fn inside a database transaction; the transaction travels
// in fn's context so the repositories pick it up.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	patients     *patient.Service
	appointments appointment.Repository
	medicines    medicine.Repository
	teams        team.Repository
	users        auth.UserRepository
	accounts     *auth.Service
	inTx         TxRunner
	logger       zerolog.Logger
}

func NewService(
	patients *patient.Service,
	appointments appointment.Repository,
	medicines medicine.Repository,
	teams team.Repository,
	users auth.UserRepository,
	accounts *auth.Service,
	inTx TxRunner,
	logger zerolog.Logger,
) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		medicines:    medicines,
		teams:        teams,
		users:        users,
		accounts:     accounts,
		inTx:         inTx,
		logger:       logger.With().Str("component", "dashboard").Logger(),
	}
}

// PatientDashboard assembles the patient summary with their appointments,
// medicines and care team.
func (s *Service) PatientDashboard(ctx context.Context, patientID uuid.UUID) (*PatientDashboard, error) {
	summary, err := s.patients.GetPatientSummary(ctx, patientID)
	if err != nil {
		return nil, err
	}

	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	meds, err := s.medicines.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load medicines: %w", err)
	}
	members, err := s.teams.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load medical team: %w", err)
	}

	if appts == nil {
		appts = []*appointment.Appointment{}
	}
	if meds == nil {
		meds = []*medicine.Medicine{}
	}
	if members == nil {
		members = []*team.PatientTeamMember{}
	}
	return &PatientDashboard{
		Patient:      summary,
		Appointments: appts,
		Medicines:    meds,
		MedicalTeam:  members,
	}, nil
}

// ParentDashboard assembles the dashboard for the parent's first linked
// child. Parents with no linked children get ErrNoChildren.
func (s *Service) ParentDashboard(ctx context.Context, parentUserID uuid.UUID) (*PatientDashboard, error) {
	children, err := s.users.ChildrenForParent(ctx, parentUserID)
	if err != nil {
		return nil, fmt.Errorf("load children: %w", err)
	}
	if len(children) == 0 {
		return nil, ErrNoChildren
	}
	return s.PatientDashboard(ctx, children[0].ID)
}

// AdmitPatient creates the patient record and a patient login credential
// in one transaction. The generated temporary password is returned once.
func (s *Service) AdmitPatient(ctx context.Context, p *patient.Patient) (*Admission, error) {
	temp, err := auth.TempPassword()
	if err != nil {
		return nil, err
	}

	var adm *Admission
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.patients.CreatePatient(ctx, p); err != nil {
			return err
		}
		username := loginName(p.FirstName, p.LastName)
		user, err := s.accounts.CreateUser(ctx, username, temp, auth.RolePatient, &p.ID)
		if err != nil {
			return fmt.Errorf("create patient account: %w", err)
		}
		adm = &Admission{Patient: p, Username: user.Username, TempPassword: temp}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("patient_id", adm.Patient.ID.String()).
		Str("username", adm.Username).
		Msg("patient admitted")
	return adm, nil
}

// DischargePatient removes the patient and everything hanging off them
// (appointments, medicines, team assignments, credentials) in one
// transaction.
func (s *Service) DischargePatient(ctx context.Context, patientID uuid.UUID) error {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return err
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.appointments.DeleteByPatient(ctx, patientID); err != nil {
			return fmt.Errorf("delete appointments: %w", err)
		}
		if err := s.medicines.DeleteByPatient(ctx, patientID); err != nil {
			return fmt.Errorf("delete medicines: %w", err)
		}
		if err := s.teams.UnassignPatient(ctx, patientID); err != nil {
			return fmt.Errorf("delete team assignments: %w", err)
		}
		if err := s.users.DeleteByPatient(ctx, patientID); err != nil {
			return fmt.Errorf("delete credentials: %w", err)
		}
		return s.patients.DeletePatient(ctx, patientID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("patient_id", patientID.String()).Msg("patient discharged")
	return nil
}

// SearchPatients is the admin patient search.
func (s *Service) SearchPatients(ctx context.Context, query string, limit int) ([]*patient.Patient, error) {
	return s.patients.SearchPatients(ctx, query, limit)
}

// loginName derives the generated patient username, e.g. "Mary Jane" +
// "O'Neill" becomes "mary_jane_o'neill" lowered with spaces collapsed.
func loginName(first, last string) string {
	name := strings.ToLower(first + "_" + last)
	return strings.Join(strings.Fields(name), "_")
}
