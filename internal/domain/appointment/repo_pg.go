package appointment

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

const apptCols = `id, patient_id, team_member_id, appointment_date, location,
	purpose, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.TeamMemberID, &a.At, &a.Location,
		&a.Purpose, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, team_member_id, appointment_date,
			location, purpose, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.TeamMemberID, a.At, a.Location, a.Purpose, a.Status, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET team_member_id=$2, appointment_date=$3, location=$4,
			purpose=$5, status=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.TeamMemberID, a.At, a.Location, a.Purpose, a.Status, a.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE patient_id = $1 ORDER BY appointment_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) NextUpcoming(ctx context.Context, patientID uuid.UUID) (*NextAppointment, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT a.id, a.patient_id, a.team_member_id, a.appointment_date, a.location,
			a.purpose, a.status, a.notes, a.created_at, a.updated_at,
			m.name, m.role, m.department,
			p.first_name, p.last_name, to_char(p.birth_date, 'YYYY-MM-DD'),
			date_part('year', age(p.birth_date))::int
		FROM appointment a
		LEFT JOIN team_member m ON a.team_member_id = m.id
		JOIN patient p ON a.patient_id = p.id
		WHERE a.patient_id = $1 AND a.status = 'upcoming'
		ORDER BY a.appointment_date ASC
		LIMIT 1`, patientID)

	var n NextAppointment
	err := row.Scan(&n.ID, &n.PatientID, &n.TeamMemberID, &n.At, &n.Location,
		&n.Purpose, &n.Status, &n.Notes, &n.CreatedAt, &n.UpdatedAt,
		&n.DoctorName, &n.DoctorRole, &n.DoctorDepartment,
		&n.PatientFirstName, &n.PatientLastName, &n.PatientBirthDate, &n.PatientAge)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
