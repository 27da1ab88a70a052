package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kidscare/portal/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const memberCols = `id, name, role, department, contact_email, contact_phone,
	photo_url, profile_notes, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Department, &m.ContactEmail,
		&m.ContactPhone, &m.PhotoURL, &m.ProfileNotes, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO team_member (id, name, role, department, contact_email,
			contact_phone, photo_url, profile_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.Name, m.Role, m.Department, m.ContactEmail,
		m.ContactPhone, m.PhotoURL, m.ProfileNotes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return scanMember(r.conn(ctx).QueryRow(ctx,
		`SELECT `+memberCols+` FROM team_member WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE team_member
		SET name = $2, role = $3, department = $4, contact_email = $5,
			contact_phone = $6, photo_url = $7, profile_notes = $8, updated_at = now()
		WHERE id = $1`,
		m.ID, m.Name, m.Role, m.Department, m.ContactEmail,
		m.ContactPhone, m.PhotoURL, m.ProfileNotes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM team_member WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM team_member`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+memberCols+` FROM team_member ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func (r *repoPG) Assign(ctx context.Context, a *Assignment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_team (patient_id, team_member_id, relationship, notes)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (patient_id, team_member_id) DO NOTHING`,
		a.PatientID, a.TeamMemberID, a.Relationship, a.Notes)
	return err
}

func (r *repoPG) UpdateAssignment(ctx context.Context, a *Assignment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_team
		SET relationship = $3, notes = $4
		WHERE patient_id = $1 AND team_member_id = $2`,
		a.PatientID, a.TeamMemberID, a.Relationship, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientTeamMember, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT tm.id, tm.name, tm.role, tm.department, tm.contact_email,
			tm.contact_phone, tm.photo_url, tm.profile_notes, tm.created_at,
			tm.updated_at, pt.relationship, pt.notes
		FROM patient_team pt
		JOIN team_member tm ON tm.id = pt.team_member_id
		WHERE pt.patient_id = $1
		ORDER BY tm.name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*PatientTeamMember
	for rows.Next() {
		var m PatientTeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Department, &m.ContactEmail,
			&m.ContactPhone, &m.PhotoURL, &m.ProfileNotes, &m.CreatedAt,
			&m.UpdatedAt, &m.Relationship, &m.PatientNotes); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

func (r *repoPG) UnassignPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM patient_team WHERE patient_id = $1`, patientID)
	return err
}
