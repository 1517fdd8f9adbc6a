// Package audit provides the mutation audit trail. Every create, update
// and delete against a clinic record produces one immutable audit event.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medcore/clinic-console/pkg/logging"
)

// Action is the kind of mutation an event records.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is an immutable audit record.
type Event struct {
	ID        string          `json:"id"`
	Actor     string          `json:"actor"`
	Action    Action          `json:"action"`
	Entity    string          `json:"entity"`
	RecordID  int64           `json:"record_id"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recorder is what the entity handlers use to record mutations. Recording
// failures never fail the mutation itself.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) {}

// Filter specifies criteria for querying audit events.
type Filter struct {
	Entity string
	Action Action
	Limit  int
	Offset int
}

// Service stores audit events in the relational database.
type Service struct {
	db     *sql.DB
	actor  string
	logger *logging.Logger
}

// NewService creates an audit service. actor names the console operator
// recorded on every event.
func NewService(db *sql.DB, actor string, logger *logging.Logger) *Service {
	if actor == "" {
		actor = "system"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{db: db, actor: actor, logger: logger}
}

// Record logs one mutation. Write failures are logged but never fail the
// mutation they describe.
func (s *Service) Record(ctx context.Context, event Event) {
	if err := s.Log(ctx, event); err != nil {
		s.logger.Error("audit write failed",
			"entity", event.Entity,
			"action", string(event.Action),
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

// Log inserts one audit event and reports the failure, for callers that
// care about it.
func (s *Service) Log(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Actor == "" {
		event.Actor = s.actor
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_events (id, actor, action, entity, record_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Actor,
		event.Action,
		event.Entity,
		event.RecordID,
		event.Details,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: failed to log event: %w", err)
	}
	return nil
}

// List retrieves audit events, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Event, error) {
	query := `
		SELECT id, actor, action, entity, record_id, details, created_at
		FROM audit_events
		WHERE 1 = 1
	`
	args := []any{}
	argIdx := 1

	if filter.Entity != "" {
		query += fmt.Sprintf(" AND entity = $%d", argIdx)
		args = append(args, filter.Entity)
		argIdx++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, filter.Action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &e.RecordID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: failed to scan event: %w", err)
		}
		if details.Valid {
			e.Details = json.RawMessage(details.String)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Delete removes one audit event.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("audit: failed to delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// DeleteBatch removes a set of audit events and returns how many were
// actually deleted.
func (s *Service) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := "DELETE FROM audit_events WHERE id IN (" + strings.Join(placeholders, ", ") + ")"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("audit: failed to delete events: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
