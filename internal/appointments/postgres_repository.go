package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("appointments: database required")
	}
	return &PostgresRepository{db: db}
}

// List returns the full collection joined with the owning patient, newest
// first.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	query := `
		SELECT a.id, a.patient_id, a.procedure,
		       to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI'),
		       a.status, p.name, p.tax_id
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		ORDER BY a.date DESC, a.time DESC, a.id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.Procedure,
			&a.Date, &a.Time, &a.Status,
			&a.PatientName, &a.PatientTaxID,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts a new row. The patient foreign key turns into
// ErrPatientNotFound.
func (r *PostgresRepository) Create(ctx context.Context, in *Input) (*Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO appointments (patient_id, procedure, date, time, status)
		VALUES ($1, $2, $3::date, $4::time, $5)
		RETURNING id
	`
	a := &Appointment{
		PatientID: in.PatientID,
		Procedure: strings.TrimSpace(in.Procedure),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Status:    in.Status,
	}
	err := r.db.QueryRow(ctx, query, a.PatientID, a.Procedure, a.Date, a.Time, string(a.Status)).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return a, nil
}

// UpdateStatus changes only the appointment status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	query := `
		UPDATE appointments
		SET status = $1
		WHERE id = $2
		RETURNING id, patient_id, procedure,
		          to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), status
	`
	var a Appointment
	err := r.db.QueryRow(ctx, query, string(status), id).Scan(
		&a.ID, &a.PatientID, &a.Procedure, &a.Date, &a.Time, &a.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: update failed: %w", err)
	}
	return &a, nil
}

// Delete removes a single appointment without touching its patient.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
