package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/medcore/clinic-console/internal/medcore"
	"github.com/medcore/clinic-console/pkg/logging"
)

// Positions is the job position admin module.
type Positions struct {
	api    *medcore.Client
	notify Notifier
	logger *logging.Logger

	mu    sync.Mutex
	cache []medcore.Position
}

// NewPositions creates the positions module.
func NewPositions(api *medcore.Client, notify Notifier, logger *logging.Logger) *Positions {
	if logger == nil {
		logger = logging.Default()
	}
	return &Positions{api: api, notify: notify, logger: logger.WithComponent("positions")}
}

// PositionForm mirrors the position form fields. A non-empty ID selects
// update over create.
type PositionForm struct {
	ID          string
	Name        string
	Salary      string
	Description string
}

// List fetches positions filtered by name, replaces the cache and returns
// the rendered table. On failure the cache and the previous rendering are
// left as they were.
func (m *Positions) List(ctx context.Context, name string) (*Table, error) {
	items, err := m.api.ListPositions(ctx, strings.TrimSpace(name))
	if err != nil {
		m.logger.Error("list positions failed", "error", err)
		m.notify.Notify("Could not load positions.")
		return nil, err
	}

	m.mu.Lock()
	m.cache = items
	m.mu.Unlock()

	table := &Table{
		Columns: []string{"ID", "Name", "Salary", "Description"},
		Empty:   "No positions found.",
	}
	for _, p := range items {
		table.Rows = append(table.Rows, Row{
			ID: p.ID,
			Cells: []string{
				strconv.FormatInt(p.ID, 10),
				p.Name,
				fmt.Sprintf("R$ %.2f", p.Salary),
				orDash(p.Description),
			},
		})
	}
	return table, nil
}

// Save creates or updates a position depending on the form's stored ID.
func (m *Positions) Save(ctx context.Context, form PositionForm) error {
	name := strings.TrimSpace(form.Name)
	salaryStr := strings.TrimSpace(form.Salary)
	if name == "" || salaryStr == "" {
		m.notify.Notify("Name and salary are required.")
		return fmt.Errorf("%w: name and salary are required", ErrValidation)
	}
	salary, err := strconv.ParseFloat(salaryStr, 64)
	if err != nil {
		m.notify.Notify("Salary must be a number.")
		return fmt.Errorf("%w: salary must be a number", ErrValidation)
	}

	in := medcore.PositionInput{
		Name:        name,
		Salary:      salary,
		Description: strings.TrimSpace(form.Description),
	}

	if form.ID != "" {
		id, err := strconv.ParseInt(form.ID, 10, 64)
		if err != nil {
			m.notify.Notify("Invalid position identifier.")
			return fmt.Errorf("%w: invalid position id %q", ErrValidation, form.ID)
		}
		if _, err := m.api.UpdatePosition(ctx, id, in); err != nil {
			m.logger.Error("update position failed", "id", id, "error", err)
			m.notify.Notify("Could not save the position.")
			return err
		}
	} else {
		if _, err := m.api.CreatePosition(ctx, in); err != nil {
			m.logger.Error("create position failed", "error", err)
			m.notify.Notify("Could not save the position.")
			return err
		}
	}

	m.notify.Notify("Position saved.")
	return nil
}

// Fill resolves a position from the cache to repopulate the form for
// editing.
func (m *Positions) Fill(id int64) (*PositionForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.cache {
		if p.ID == id {
			return &PositionForm{
				ID:          strconv.FormatInt(p.ID, 10),
				Name:        p.Name,
				Salary:      strconv.FormatFloat(p.Salary, 'f', 2, 64),
				Description: p.Description,
			}, nil
		}
	}
	m.notify.Notify("Position not found.")
	return nil, fmt.Errorf("console: position %d: %w", id, ErrNotInCache)
}

// Delete removes a position after confirmation. The backend rejects the
// delete while employees reference the position; that rejection is shown
// to the user.
func (m *Positions) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm("Delete this position?") {
		return nil
	}
	if err := m.api.DeletePosition(ctx, id); err != nil {
		m.logger.Error("delete position failed", "id", id, "error", err)
		m.notify.Notify("Could not delete the position.")
		return err
	}
	m.notify.Notify("Position deleted.")
	return nil
}
