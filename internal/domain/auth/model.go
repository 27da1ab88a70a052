package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/kidscare/portal/internal/domain/patient"
)

// Role is the set of account roles the portal recognizes. Roles are derived
// from the stored credential record only; a role supplied by the client is
// never trusted.
type Role string

const (
	RolePatient Role = "patient"
	RoleParent  Role = "parent"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleParent, RoleDoctor, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

// User maps to the app_user table. PasswordHash holds a bcrypt digest and is
// never serialized.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	PatientID    *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// LoginRequest is the inbound login body. Any other fields the client sends
// (including a role) are ignored.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PatientSession is the patient-role payload of a resolved login.
type PatientSession struct {
	PatientID uuid.UUID        `json:"patient_id"`
	Age       int              `json:"age"`
	AgeGroup  patient.AgeGroup `json:"age_group"`
	Profile   *patient.Patient `json:"patient"`
}

// ParentSession is the parent-role payload of a resolved login. Children is
// always non-nil; a parent with no linked children gets an empty list.
type ParentSession struct {
	Children []*patient.Patient `json:"children"`
}

// Result is the outcome of a successful authentication: the base identity
// plus exactly one role-specific payload. For staff roles both payload
// pointers are nil. It is built per request and never persisted.
type Result struct {
	UserID         uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	Role           Role            `json:"role"`
	CanAccessAdmin bool            `json:"can_access_admin"`
	Patient        *PatientSession `json:"patient_session,omitempty"`
	Parent         *ParentSession  `json:"parent_session,omitempty"`
}
