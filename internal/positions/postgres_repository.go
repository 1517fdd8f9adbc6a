package positions

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

// PostgresRepository stores positions in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("positions: database required")
	}
	return &PostgresRepository{db: db}
}

// List returns positions whose name contains the filter, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, name string) ([]Position, error) {
	query := `
		SELECT id, name, salary, COALESCE(description, '')
		FROM positions
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("positions: select failed: %w", err)
	}
	defer rows.Close()

	out := []Position{}
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Salary, &p.Description); err != nil {
			return nil, fmt.Errorf("positions: scan failed: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, in *Input) (*Position, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO positions (name, salary, description)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id
	`
	p := &Position{
		Name:        strings.TrimSpace(in.Name),
		Salary:      in.Salary,
		Description: strings.TrimSpace(in.Description),
	}
	if err := r.db.QueryRow(ctx, query, p.Name, p.Salary, p.Description).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("positions: insert failed: %w", err)
	}
	return p, nil
}

// Update replaces the writable fields of a position.
func (r *PostgresRepository) Update(ctx context.Context, id int64, in *Input) (*Position, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE positions
		SET name = $1, salary = $2, description = NULLIF($3, '')
		WHERE id = $4
		RETURNING id
	`
	p := &Position{
		Name:        strings.TrimSpace(in.Name),
		Salary:      in.Salary,
		Description: strings.TrimSpace(in.Description),
	}
	if err := r.db.QueryRow(ctx, query, p.Name, p.Salary, p.Description, id).Scan(&p.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("positions: update failed: %w", err)
	}
	return p, nil
}

// Delete removes a position. The foreign key from employees turns into
// ErrPositionInUse.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrPositionInUse
		}
		return fmt.Errorf("positions: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPositionNotFound
	}
	return nil
}
