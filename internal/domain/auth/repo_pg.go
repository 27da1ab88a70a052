package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kidscare/portal/internal/domain/patient"
	"github.com/kidscare/portal/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, username, password_hash, role, patient_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.PatientID, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, username, password_hash, role, patient_id)
		VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.PatientID)
	return err
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE username = $1`, username))
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	return err
}

func (r *userRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM parent_child WHERE patient_id = $1`, patientID); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM app_user WHERE patient_id = $1`, patientID)
	return err
}

func (r *userRepoPG) LinkChild(ctx context.Context, parentUserID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO parent_child (parent_user_id, patient_id)
		VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		parentUserID, patientID)
	return err
}

func (r *userRepoPG) ChildrenForParent(ctx context.Context, parentUserID uuid.UUID) ([]*patient.Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.birth_date, p.gender, p.address,
			p.contact_phone, p.photo_url, p.notes, p.created_at, p.updated_at
		FROM parent_child pc
		JOIN patient p ON pc.patient_id = p.id
		WHERE pc.parent_user_id = $1
		ORDER BY p.birth_date`, parentUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*patient.Patient
	for rows.Next() {
		var p patient.Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Address,
			&p.ContactPhone, &p.PhotoURL, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		children = append(children, &p)
	}
	return children, rows.Err()
}
