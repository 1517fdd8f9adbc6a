package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/medcore/clinic-console/internal/medcore"
)

func employeesFixture(t *testing.T) (*Employees, *fakeBackend, *recordingNotifier) {
	fb, ts := newFakeBackend(t)
	notify := &recordingNotifier{}
	return NewEmployees(testClient(ts), notify, nil), fb, notify
}

func int64ptr(v int64) *int64 { return &v }

func TestEmployeesList(t *testing.T) {
	m, fb, _ := employeesFixture(t)
	fb.handleJSON("GET /employees", http.StatusOK, []medcore.Employee{
		{ID: 1, Name: "Diego Prado", TaxID: "111", BirthDate: "1988-01-15", PositionID: int64ptr(2), PositionName: "Nurse"},
		{ID: 2, Name: "Elisa Rocha", TaxID: "222"},
	})

	table, err := m.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Cells[2]; got != "15/01/1988" {
		t.Errorf("expected display-format birth date, got %q", got)
	}
	if got := table.Rows[0].Cells[7]; got != "Nurse" {
		t.Errorf("expected position name, got %q", got)
	}
	// No position resolves to the placeholder, not an empty cell.
	if got := table.Rows[1].Cells[7]; got != "-" {
		t.Errorf("expected placeholder without position, got %q", got)
	}
}

func TestEmployeesSave_PositionReference(t *testing.T) {
	m, fb, _ := employeesFixture(t)

	var payload medcore.EmployeeInput
	fb.handle("POST /employees", func(w http.ResponseWriter, r *http.Request) {
		payload = medcore.EmployeeInput{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode employee payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(medcore.Employee{ID: 4, Name: payload.Name, TaxID: payload.TaxID})
	})

	err := m.Save(context.Background(), EmployeeForm{
		Name:       "Diego Prado",
		TaxID:      "111",
		BirthDate:  "1988-01-15",
		PositionID: "2",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if payload.PositionID == nil || *payload.PositionID != 2 {
		t.Errorf("expected position reference 2, got %v", payload.PositionID)
	}

	// No position selected leaves the reference unset.
	err = m.Save(context.Background(), EmployeeForm{Name: "Elisa Rocha", TaxID: "222"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if payload.PositionID != nil {
		t.Errorf("expected no position reference, got %v", *payload.PositionID)
	}
}

func TestEmployeesSave_Validation(t *testing.T) {
	m, fb, _ := employeesFixture(t)

	if err := m.Save(context.Background(), EmployeeForm{Name: "Diego"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := m.Save(context.Background(), EmployeeForm{Name: "Diego", TaxID: "111", PositionID: "abc"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad position id, got %v", err)
	}
	if len(fb.calls()) != 0 {
		t.Errorf("validation failure must not reach the backend, got %v", fb.calls())
	}
}

func TestEmployeesSave_DuplicateTaxID(t *testing.T) {
	m, fb, notify := employeesFixture(t)
	fb.handleJSON("POST /employees", http.StatusConflict, map[string]string{"error": "tax id already registered"})

	err := m.Save(context.Background(), EmployeeForm{Name: "Diego Prado", TaxID: "111"})
	var apiErr *medcore.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if notify.last() != "Could not save the employee." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestEmployeesFill(t *testing.T) {
	m, fb, _ := employeesFixture(t)
	fb.handleJSON("GET /employees", http.StatusOK, []medcore.Employee{
		{ID: 1, Name: "Diego Prado", TaxID: "111", BirthDate: "1988-01-15", PositionID: int64ptr(2), PositionName: "Nurse"},
	})
	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	form, err := m.Fill(1)
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if form.BirthDate != "1988-01-15" {
		t.Errorf("expected storage-format birth date for the input widget, got %q", form.BirthDate)
	}
	if form.PositionID != "2" {
		t.Errorf("expected position id 2, got %q", form.PositionID)
	}

	if _, err := m.Fill(9); !errors.Is(err, ErrNotInCache) {
		t.Errorf("expected ErrNotInCache, got %v", err)
	}
}

func TestEmployeesPositionOptions(t *testing.T) {
	m, fb, _ := employeesFixture(t)
	fb.handleJSON("GET /positions", http.StatusOK, []medcore.Position{
		{ID: 1, Name: "Nurse"},
		{ID: 2, Name: "Dentist"},
	})

	options, err := m.PositionOptions(context.Background())
	if err != nil {
		t.Fatalf("PositionOptions returned error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
}
