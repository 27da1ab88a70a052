package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kidscare/portal/internal/domain/patient"
)

const defaultLookupTimeout = 3 * time.Second

// Options configures the resolver's policy knobs.
type Options struct {
	// ElevatedRoles is the set of roles granted CanAccessAdmin. Defaults to
	// doctor, nurse, admin.
	ElevatedRoles []string
	// LookupTimeout bounds each data-store lookup. Defaults to 3s.
	LookupTimeout time.Duration
	// BcryptCost is used when creating credentials. Defaults to
	// bcrypt.DefaultCost.
	BcryptCost int
}

// Service validates login attempts and produces role-shaped results.
type Service struct {
	users         UserRepository
	patients      patient.Repository
	elevated      map[Role]bool
	lookupTimeout time.Duration
	bcryptCost    int
	logger        zerolog.Logger
	now           func() time.Time
}

func NewService(users UserRepository, patients patient.Repository, logger zerolog.Logger, opts Options) *Service {
	elevated := make(map[Role]bool)
	roles := opts.ElevatedRoles
	if len(roles) == 0 {
		roles = []string{string(RoleDoctor), string(RoleNurse), string(RoleAdmin)}
	}
	for _, r := range roles {
		elevated[Role(r)] = true
	}

	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		users:         users,
		patients:      patients,
		elevated:      elevated,
		lookupTimeout: timeout,
		bcryptCost:    cost,
		logger:        logger,
		now:           time.Now,
	}
}

// Authenticate validates the credentials and assembles the role-shaped
// result. Exactly one role branch runs per call; the result is fully built
// before it is returned. Failures are terminal and never retried here.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Result, error) {
	if username == "" || password == "" {
		return nil, E(KindValidation, "username and password are required", nil)
	}

	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	// Constant-time comparison of the bcrypt digest. No password check
	// happens for unknown usernames (the lookup already failed).
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("username", username).Msg("password mismatch")
		return nil, E(KindUnauthorized, "invalid credentials", nil)
	}

	res := &Result{
		UserID:         user.ID,
		Username:       user.Username,
		Role:           user.Role,
		CanAccessAdmin: s.elevated[user.Role],
	}

	switch user.Role {
	case RolePatient:
		session, err := s.patientSession(ctx, user)
		if err != nil {
			return nil, err
		}
		res.Patient = session
	case RoleParent:
		children, err := s.childrenForParent(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		res.Parent = &ParentSession{Children: children}
	default:
		// doctor / nurse / admin: base payload only
	}

	return res, nil
}

func (s *Service) lookupUser(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, E(KindNotFound, "user not found", nil)
		}
		s.logger.Error().Err(err).Str("username", username).Msg("credential lookup failed")
		return nil, E(KindDependency, "credential lookup failed", err)
	}
	return user, nil
}

func (s *Service) patientSession(ctx context.Context, user *User) (*PatientSession, error) {
	// A patient credential without a linked profile is a data defect, not a
	// login the caller can fix.
	if user.PatientID == nil {
		s.logger.Error().Str("user_id", user.ID.String()).Msg("patient credential has no linked profile")
		return nil, E(KindDependency, "patient profile missing", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	profile, err := s.patients.GetByID(ctx, *user.PatientID)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", user.PatientID.String()).Msg("patient profile lookup failed")
		return nil, E(KindDependency, "patient profile lookup failed", err)
	}
	if profile.BirthDate.IsZero() {
		return nil, E(KindDependency, "patient profile has no birth date", nil)
	}

	now := s.now()
	return &PatientSession{
		PatientID: profile.ID,
		Age:       profile.AgeOn(now),
		AgeGroup:  profile.AgeGroupOn(now),
		Profile:   profile,
	}, nil
}

func (s *Service) childrenForParent(ctx context.Context, parentUserID uuid.UUID) ([]*patient.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	children, err := s.users.ChildrenForParent(ctx, parentUserID)
	if err != nil {
		s.logger.Error().Err(err).Str("parent_user_id", parentUserID.String()).Msg("children lookup failed")
		return nil, E(KindDependency, "children lookup failed", err)
	}
	if children == nil {
		children = []*patient.Patient{}
	}
	return children, nil
}

// CreateUser stores a new credential with a bcrypt hash. The patient link
// invariant is enforced here: a patient_id is present iff the role is
// patient.
func (s *Service) CreateUser(ctx context.Context, username, password string, role Role, patientID *uuid.UUID) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if (role == RolePatient) != (patientID != nil) {
		return nil, fmt.Errorf("patient_id must be set for patient accounts and only for them")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		PatientID:    patientID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LinkChild associates a patient with a parent account.
func (s *Service) LinkChild(ctx context.Context, parentUserID, patientID uuid.UUID) error {
	parent, err := s.users.GetByID(ctx, parentUserID)
	if err != nil {
		return fmt.Errorf("parent lookup: %w", err)
	}
	if parent.Role != RoleParent {
		return fmt.Errorf("user %s is not a parent account", parent.Username)
	}
	return s.users.LinkChild(ctx, parentUserID, patientID)
}

// TempPassword generates a random one-time password for newly admitted
// patient accounts. Only the bcrypt hash is stored; the cleartext is shown
// once to the admitting staff member.
func TempPassword() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
