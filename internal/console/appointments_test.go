package console

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/medcore/clinic-console/internal/medcore"
)

func appointmentsFixture(t *testing.T) (*Appointments, *fakeBackend, *recordingNotifier) {
	fb, ts := newFakeBackend(t)
	notify := &recordingNotifier{}
	return NewAppointments(testClient(ts), notify, nil), fb, notify
}

func scriptAppointmentData(fb *fakeBackend) {
	fb.handleJSON("GET /patients", http.StatusOK, []medcore.Patient{
		{ID: 3, Name: "Ana Souza", TaxID: "11122233344"},
		{ID: 4, Name: "Bruno Lima", TaxID: "55566677788"},
	})
	fb.handleJSON("GET /appointments", http.StatusOK, []medcore.Appointment{
		{ID: 7, PatientID: 3, Procedure: "Cleaning", Date: "2026-09-10", Time: "09:30", Status: medcore.StatusScheduled},
		{ID: 8, PatientID: 4, Procedure: "Botox", Date: "2026-09-11", Time: "14:00", Status: medcore.StatusConfirmed},
		{ID: 9, PatientID: 99, Procedure: "Checkup", Date: "2026-09-12", Time: "10:00", Status: medcore.StatusScheduled},
	})
}

func TestAppointmentsList_FiltersClientSide(t *testing.T) {
	m, fb, _ := appointmentsFixture(t)
	scriptAppointmentData(fb)

	table, err := m.List(context.Background(), "ana", "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 filtered row, got %d", len(table.Rows))
	}
	if table.Rows[0].ID != 7 {
		t.Errorf("expected Ana's appointment, got row id %d", table.Rows[0].ID)
	}
	if table.Rows[0].Cells[1] != "Ana Souza" {
		t.Errorf("expected resolved patient name, got %q", table.Rows[0].Cells[1])
	}
	if table.Rows[0].Cells[3] != "10/09/2026" {
		t.Errorf("expected display-format date, got %q", table.Rows[0].Cells[3])
	}

	// The filter never reaches the backend.
	for _, call := range fb.calls() {
		if strings.Contains(call, "?") {
			t.Errorf("unexpected query in backend call %q", call)
		}
	}

	// The cache still holds the full, unfiltered collection.
	if got := len(m.Cached()); got != 3 {
		t.Errorf("expected full collection in cache, got %d entries", got)
	}
}

func TestAppointmentsList_UnresolvedPatientRendersPlaceholder(t *testing.T) {
	m, fb, _ := appointmentsFixture(t)
	scriptAppointmentData(fb)

	table, err := m.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[2].Cells[1]; got != unlinkedPatient {
		t.Errorf("expected %q for unresolved patient, got %q", unlinkedPatient, got)
	}
}

func TestAppointmentsList_PatientLookupFailureDegrades(t *testing.T) {
	m, fb, _ := appointmentsFixture(t)
	scriptAppointmentData(fb)
	fb.handleJSON("GET /patients", http.StatusInternalServerError, map[string]string{"error": "db down"})

	table, err := m.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List should survive a patient lookup failure, got %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Cells[1]; got != unlinkedPatient {
		t.Errorf("expected %q when names are unavailable, got %q", unlinkedPatient, got)
	}
}

func TestAppointmentsList_FailureKeepsCache(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	fb.handleJSON("GET /appointments", http.StatusInternalServerError, map[string]string{"error": "db down"})
	if _, err := m.List(context.Background(), "", ""); err == nil {
		t.Fatal("expected error from failed List")
	}
	if got := len(m.Cached()); got != 3 {
		t.Errorf("cache should survive a failed list, got %d entries", got)
	}
	if notify.last() != "Could not load appointments." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestAppointmentsDelete_CascadesToPatient(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)
	fb.handleJSON("DELETE /patients/3", http.StatusNoContent, nil)

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	if err := m.Delete(context.Background(), 7, alwaysConfirm()); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var deletes []string
	for _, call := range fb.calls() {
		if strings.HasPrefix(call, "DELETE") {
			deletes = append(deletes, call)
		}
	}
	if len(deletes) != 1 || deletes[0] != "DELETE /patients/3" {
		t.Errorf("expected a single patient delete, got %v", deletes)
	}
	if notify.last() != "Appointment and patient record removed." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestAppointmentsDelete_FallsBackToAppointmentDelete(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)
	fb.handleJSON("DELETE /patients/3", http.StatusInternalServerError, map[string]string{"error": "db down"})
	fb.handleJSON("DELETE /appointments/7", http.StatusNoContent, nil)

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	if err := m.Delete(context.Background(), 7, alwaysConfirm()); err != nil {
		t.Fatalf("fallback delete should report success, got %v", err)
	}
	if notify.last() != "Appointment removed. The patient record was kept." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestAppointmentsDelete_BothFailures(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)
	fb.handleJSON("DELETE /patients/3", http.StatusInternalServerError, map[string]string{"error": "db down"})
	fb.handleJSON("DELETE /appointments/7", http.StatusInternalServerError, map[string]string{"error": "db down"})

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	err := m.Delete(context.Background(), 7, alwaysConfirm())
	if err == nil {
		t.Fatal("expected error when both deletes fail")
	}
	var apiErr *medcore.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected the appointment delete failure to be wrapped, got %v", err)
	}
	if notify.last() != "Could not complete the delete." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestAppointmentsDelete_CacheMissAborts(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}
	before := len(fb.calls())

	err := m.Delete(context.Background(), 42, alwaysConfirm())
	if !errors.Is(err, ErrNotInCache) {
		t.Fatalf("expected ErrNotInCache, got %v", err)
	}
	// A cache miss never triggers a fresh fetch or a delete.
	if got := len(fb.calls()); got != before {
		t.Errorf("expected no backend calls on cache miss, got %d new", got-before)
	}
	if notify.last() != "Could not complete the delete." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}

func TestAppointmentsDelete_Declined(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	scriptAppointmentData(fb)

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}
	before := len(fb.calls())

	if err := m.Delete(context.Background(), 7, neverConfirm()); err != nil {
		t.Fatalf("declined delete should be a no-op, got %v", err)
	}
	if got := len(fb.calls()); got != before {
		t.Errorf("declined delete must not touch the backend, got %d new calls", got-before)
	}
	if notify.count() != 0 {
		t.Errorf("declined delete should not notify, got %q", notify.last())
	}
}

func TestAppointmentsSetStatus_NoOptimisticCacheUpdate(t *testing.T) {
	m, fb, _ := appointmentsFixture(t)
	scriptAppointmentData(fb)
	fb.handleJSON("PATCH /appointments/7", http.StatusOK, medcore.Appointment{
		ID: 7, PatientID: 3, Status: medcore.StatusConfirmed,
	})

	if _, err := m.List(context.Background(), "", ""); err != nil {
		t.Fatalf("priming List failed: %v", err)
	}

	if err := m.SetStatus(context.Background(), 7, medcore.StatusConfirmed); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}

	// The cached record keeps the pre-update status until the next list.
	for _, a := range m.Cached() {
		if a.ID == 7 && a.Status != medcore.StatusScheduled {
			t.Errorf("cache was updated optimistically: status %q", a.Status)
		}
	}
}

func TestAppointmentsSetStatus_RejectionSurfacesError(t *testing.T) {
	m, fb, notify := appointmentsFixture(t)
	fb.handleJSON("PATCH /appointments/7", http.StatusUnprocessableEntity, map[string]string{"error": "invalid status"})

	err := m.SetStatus(context.Background(), 7, medcore.Status("Bogus"))
	var apiErr *medcore.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 APIError, got %v", err)
	}
	if notify.last() != "Could not update the appointment status." {
		t.Errorf("unexpected notification %q", notify.last())
	}
}
