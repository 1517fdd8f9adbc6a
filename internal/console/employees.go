package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/medcore/clinic-console/internal/dates"
	"github.com/medcore/clinic-console/internal/medcore"
	"github.com/medcore/clinic-console/pkg/logging"
)

// Employees is the employee admin module.
type Employees struct {
	api    *medcore.Client
	notify Notifier
	logger *logging.Logger

	mu    sync.Mutex
	cache []medcore.Employee
}

// NewEmployees creates the employees module.
func NewEmployees(api *medcore.Client, notify Notifier, logger *logging.Logger) *Employees {
	if logger == nil {
		logger = logging.Default()
	}
	return &Employees{api: api, notify: notify, logger: logger.WithComponent("employees")}
}

// EmployeeForm mirrors the employee form fields. BirthDate is held in
// storage format for the date input widget.
type EmployeeForm struct {
	ID         string
	Name       string
	TaxID      string
	BirthDate  string
	Address    string
	Email      string
	Phone      string
	PositionID string
}

// List fetches employees filtered by name and tax ID, replaces the cache
// and returns the rendered table. An employee without a resolvable position
// renders the placeholder in the position column.
func (m *Employees) List(ctx context.Context, name, taxID string) (*Table, error) {
	items, err := m.api.ListEmployees(ctx, medcore.EmployeeFilter{
		Name:  strings.TrimSpace(name),
		TaxID: strings.TrimSpace(taxID),
	})
	if err != nil {
		m.logger.Error("list employees failed", "error", err)
		m.notify.Notify("Could not load employees.")
		return nil, err
	}

	m.mu.Lock()
	m.cache = items
	m.mu.Unlock()

	table := &Table{
		Columns: []string{"ID", "Name", "Birth Date", "Address", "Tax ID", "Email", "Phone", "Position"},
		Empty:   "No employees found.",
	}
	for _, e := range items {
		table.Rows = append(table.Rows, Row{
			ID: e.ID,
			Cells: []string{
				strconv.FormatInt(e.ID, 10),
				e.Name,
				dates.ToDisplay(e.BirthDate),
				orDash(e.Address),
				e.TaxID,
				orDash(e.Email),
				orDash(e.Phone),
				orDash(e.PositionName),
			},
		})
	}
	return table, nil
}

// PositionOptions returns the positions available for the form's select
// control.
func (m *Employees) PositionOptions(ctx context.Context) ([]medcore.Position, error) {
	positions, err := m.api.ListPositions(ctx, "")
	if err != nil {
		m.logger.Error("load position options failed", "error", err)
		return nil, err
	}
	return positions, nil
}

// Save creates or updates an employee depending on the form's stored ID.
func (m *Employees) Save(ctx context.Context, form EmployeeForm) error {
	name := strings.TrimSpace(form.Name)
	taxID := strings.TrimSpace(form.TaxID)
	if name == "" || taxID == "" {
		m.notify.Notify("Name and tax ID are required.")
		return fmt.Errorf("%w: name and tax id are required", ErrValidation)
	}

	in := medcore.EmployeeInput{
		Name:      name,
		TaxID:     taxID,
		BirthDate: dates.ToStorage(form.BirthDate),
		Address:   strings.TrimSpace(form.Address),
		Email:     strings.TrimSpace(form.Email),
		Phone:     strings.TrimSpace(form.Phone),
	}
	if pid := strings.TrimSpace(form.PositionID); pid != "" {
		id, err := strconv.ParseInt(pid, 10, 64)
		if err != nil {
			m.notify.Notify("Invalid position selection.")
			return fmt.Errorf("%w: invalid position id %q", ErrValidation, pid)
		}
		in.PositionID = &id
	}

	if form.ID != "" {
		id, err := strconv.ParseInt(form.ID, 10, 64)
		if err != nil {
			m.notify.Notify("Invalid employee identifier.")
			return fmt.Errorf("%w: invalid employee id %q", ErrValidation, form.ID)
		}
		if _, err := m.api.UpdateEmployee(ctx, id, in); err != nil {
			m.logger.Error("update employee failed", "id", id, "error", err)
			m.notify.Notify("Could not save the employee.")
			return err
		}
	} else {
		if _, err := m.api.CreateEmployee(ctx, in); err != nil {
			m.logger.Error("create employee failed", "error", err)
			m.notify.Notify("Could not save the employee.")
			return err
		}
	}

	m.notify.Notify("Employee saved.")
	return nil
}

// Fill resolves an employee from the cache to repopulate the form for
// editing. The birth date is converted to storage format for the date
// input widget.
func (m *Employees) Fill(id int64) (*EmployeeForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.cache {
		if e.ID == id {
			form := &EmployeeForm{
				ID:        strconv.FormatInt(e.ID, 10),
				Name:      e.Name,
				TaxID:     e.TaxID,
				BirthDate: dates.ToStorage(e.BirthDate),
				Address:   e.Address,
				Email:     e.Email,
				Phone:     e.Phone,
			}
			if e.PositionID != nil {
				form.PositionID = strconv.FormatInt(*e.PositionID, 10)
			}
			return form, nil
		}
	}
	m.notify.Notify("Employee not found.")
	return nil, fmt.Errorf("console: employee %d: %w", id, ErrNotInCache)
}

// Delete removes an employee after confirmation.
func (m *Employees) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm("Delete this employee?") {
		return nil
	}
	if err := m.api.DeleteEmployee(ctx, id); err != nil {
		m.logger.Error("delete employee failed", "id", id, "error", err)
		m.notify.Notify("Could not delete the employee.")
		return err
	}
	m.notify.Notify("Employee deleted.")
	return nil
}
