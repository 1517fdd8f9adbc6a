package employees

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

// PostgresRepository stores employees in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("employees: database required")
	}
	return &PostgresRepository{db: db}
}

// List returns employees matching the filter, ordered by name. The left
// join keeps employees without a position in the result.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Employee, error) {
	query := `
		SELECT e.id, e.name, e.tax_id,
		       COALESCE(to_char(e.birth_date, 'YYYY-MM-DD'), ''),
		       COALESCE(e.address, ''), COALESCE(e.email, ''), COALESCE(e.phone, ''),
		       e.position_id, COALESCE(p.name, '')
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE ($1 = '' OR e.name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR e.tax_id LIKE '%' || $2 || '%')
		ORDER BY e.name
	`
	rows, err := r.db.Query(ctx, query, strings.TrimSpace(filter.Name), strings.TrimSpace(filter.TaxID))
	if err != nil {
		return nil, fmt.Errorf("employees: select failed: %w", err)
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(
			&e.ID, &e.Name, &e.TaxID, &e.BirthDate,
			&e.Address, &e.Email, &e.Phone,
			&e.PositionID, &e.PositionName,
		); err != nil {
			return nil, fmt.Errorf("employees: scan failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, in *Input) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO employees (name, tax_id, birth_date, address, email, phone, position_id)
		VALUES ($1, $2, NULLIF($3, '')::date, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id
	`
	e := &Employee{
		Name:       strings.TrimSpace(in.Name),
		TaxID:      strings.TrimSpace(in.TaxID),
		BirthDate:  strings.TrimSpace(in.BirthDate),
		Address:    strings.TrimSpace(in.Address),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		PositionID: in.PositionID,
	}
	err := r.db.QueryRow(ctx, query,
		e.Name, e.TaxID, e.BirthDate, e.Address, e.Email, e.Phone, e.PositionID,
	).Scan(&e.ID)
	if err != nil {
		return nil, mapWriteError(err, "insert")
	}
	return e, nil
}

// Update replaces the writable fields of an employee.
func (r *PostgresRepository) Update(ctx context.Context, id int64, in *Input) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE employees
		SET name = $1, tax_id = $2, birth_date = NULLIF($3, '')::date,
		    address = NULLIF($4, ''), email = NULLIF($5, ''), phone = NULLIF($6, ''),
		    position_id = $7
		WHERE id = $8
		RETURNING id
	`
	e := &Employee{
		Name:       strings.TrimSpace(in.Name),
		TaxID:      strings.TrimSpace(in.TaxID),
		BirthDate:  strings.TrimSpace(in.BirthDate),
		Address:    strings.TrimSpace(in.Address),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		PositionID: in.PositionID,
	}
	err := r.db.QueryRow(ctx, query,
		e.Name, e.TaxID, e.BirthDate, e.Address, e.Email, e.Phone, e.PositionID, id,
	).Scan(&e.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, mapWriteError(err, "update")
	}
	return e, nil
}

// Delete removes an employee.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("employees: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func mapWriteError(err error, verb string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateTaxID
		case "23503":
			return ErrPositionNotFound
		}
	}
	return fmt.Errorf("employees: %s failed: %w", verb, err)
}
