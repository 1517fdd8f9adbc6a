package patients

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

// PostgresRepository stores patients in the relational database. Deleting
// a patient cascades to the patient's appointments through the foreign
// key.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("patients: database required")
	}
	return &PostgresRepository{db: db}
}

const selectColumns = `
	id, name, tax_id,
	COALESCE(to_char(birth_date, 'YYYY-MM-DD'), ''),
	COALESCE(phone, ''), COALESCE(email, '')
`

// List returns patients matching the filter, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Patient, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM patients
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR tax_id LIKE '%' || $2 || '%')
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, strings.TrimSpace(filter.Name), strings.TrimSpace(filter.TaxID))
	if err != nil {
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	defer rows.Close()

	out := []Patient{}
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.TaxID, &p.BirthDate, &p.Phone, &p.Email); err != nil {
			return nil, fmt.Errorf("patients: scan failed: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches a patient.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM patients
		WHERE id = $1
	`
	var p Patient
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.TaxID, &p.BirthDate, &p.Phone, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return &p, nil
}

// Create inserts a new row. A unique violation on tax_id turns into
// ErrDuplicateTaxID.
func (r *PostgresRepository) Create(ctx context.Context, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO patients (name, tax_id, birth_date, phone, email)
		VALUES ($1, $2, NULLIF($3, '')::date, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`
	p := &Patient{
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.TrimSpace(in.TaxID),
		BirthDate: strings.TrimSpace(in.BirthDate),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}
	err := r.db.QueryRow(ctx, query, p.Name, p.TaxID, p.BirthDate, p.Phone, p.Email).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTaxID
		}
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}
	return p, nil
}

// Update replaces the writable fields of a patient.
func (r *PostgresRepository) Update(ctx context.Context, id int64, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE patients
		SET name = $1, tax_id = $2, birth_date = NULLIF($3, '')::date,
		    phone = NULLIF($4, ''), email = NULLIF($5, '')
		WHERE id = $6
		RETURNING id
	`
	p := &Patient{
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.TrimSpace(in.TaxID),
		BirthDate: strings.TrimSpace(in.BirthDate),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}
	err := r.db.QueryRow(ctx, query, p.Name, p.TaxID, p.BirthDate, p.Phone, p.Email, id).Scan(&p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTaxID
		}
		return nil, fmt.Errorf("patients: update failed: %w", err)
	}
	return p, nil
}

// Delete removes a patient. The ON DELETE CASCADE on appointments removes
// every appointment owned by the patient in the same statement.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("patients: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
