package medicine

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

const medCols = `id, patient_id, medicine_name, dosage, frequency, start_date,
	end_date, prescribed_by, notes, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Frequency, &m.StartDate,
		&m.EndDate, &m.PrescribedBy, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicine (id, patient_id, medicine_name, dosage, frequency,
			start_date, end_date, prescribed_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.Frequency,
		m.StartDate, m.EndDate, m.PrescribedBy, m.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM medicine WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medicine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicine SET medicine_name=$2, dosage=$3, frequency=$4, start_date=$5,
			end_date=$6, prescribed_by=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.StartDate,
		m.EndDate, m.PrescribedBy, m.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medicine WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medicine WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+` FROM medicine WHERE patient_id = $1 ORDER BY start_date DESC NULLS LAST`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatientWithDetails(ctx context.Context, patientID uuid.UUID) ([]*PatientMedicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.patient_id, m.medicine_name, m.dosage, m.frequency,
			m.start_date, m.end_date, m.prescribed_by, m.notes, m.created_at, m.updated_at,
			p.first_name, p.last_name, to_char(p.birth_date, 'YYYY-MM-DD'),
			date_part('year', age(p.birth_date))::int
		FROM medicine m
		JOIN patient p ON m.patient_id = p.id
		WHERE m.patient_id = $1
		ORDER BY m.start_date DESC NULLS LAST`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*PatientMedicine
	for rows.Next() {
		var pm PatientMedicine
		if err := rows.Scan(&pm.ID, &pm.PatientID, &pm.Name, &pm.Dosage, &pm.Frequency,
			&pm.StartDate, &pm.EndDate, &pm.PrescribedBy, &pm.Notes, &pm.CreatedAt, &pm.UpdatedAt,
			&pm.PatientFirstName, &pm.PatientLastName, &pm.PatientBirthDate, &pm.PatientAge); err != nil {
			return nil, err
		}
		items = append(items, &pm)
	}
	return items, rows.Err()
}
