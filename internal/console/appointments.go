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

// unlinkedPatient is rendered when an appointment's patient reference
// resolves to nothing.
const unlinkedPatient = "Patient not linked"

// Appointments is the appointment admin module. The backend offers no
// appointment filters, so filtering happens here, after the cache is
// replaced with the full collection. Deleting from this view removes the
// owning patient, not just the appointment row.
type Appointments struct {
	api    *medcore.Client
	notify Notifier
	logger *logging.Logger

	mu           sync.Mutex
	cache        []medcore.Appointment
	patientNames map[int64]string
}

// NewAppointments creates the appointments module.
func NewAppointments(api *medcore.Client, notify Notifier, logger *logging.Logger) *Appointments {
	if logger == nil {
		logger = logging.Default()
	}
	return &Appointments{
		api:    api,
		notify: notify,
		logger: logger.WithComponent("appointments"),
	}
}

// loadPatientNames rebuilds the id-to-name map used to resolve appointment
// rows. A failure here only degrades name resolution; listing proceeds.
func (m *Appointments) loadPatientNames(ctx context.Context) map[int64]string {
	patients, err := m.api.ListPatients(ctx, medcore.PatientFilter{})
	if err != nil {
		m.logger.Error("load patient names failed", "error", err)
		return nil
	}
	names := make(map[int64]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}
	return names
}

// List fetches the full appointment collection, replaces the cache, then
// applies the patient-name and procedure filters (case-insensitive
// substring match) for display only.
func (m *Appointments) List(ctx context.Context, patientName, procedure string) (*Table, error) {
	names := m.loadPatientNames(ctx)

	items, err := m.api.ListAppointments(ctx)
	if err != nil {
		m.logger.Error("list appointments failed", "error", err)
		m.notify.Notify("Could not load appointments.")
		return nil, err
	}

	m.mu.Lock()
	m.cache = items
	if names != nil {
		m.patientNames = names
	}
	names = m.patientNames
	m.mu.Unlock()

	nameQuery := strings.ToLower(strings.TrimSpace(patientName))
	procQuery := strings.ToLower(strings.TrimSpace(procedure))

	table := &Table{
		Columns: []string{"ID", "Patient", "Procedure", "Date", "Time", "Status"},
		Empty:   "No appointments found.",
	}
	for _, a := range items {
		resolved := names[a.PatientID]
		if resolved == "" {
			resolved = a.PatientName
		}
		if nameQuery != "" && !strings.Contains(strings.ToLower(resolved), nameQuery) {
			continue
		}
		if procQuery != "" && !strings.Contains(strings.ToLower(a.Procedure), procQuery) {
			continue
		}
		table.Rows = append(table.Rows, Row{
			ID: a.ID,
			Cells: []string{
				strconv.FormatInt(a.ID, 10),
				orDash(firstNonEmpty(resolved, unlinkedPatient)),
				orDash(a.Procedure),
				dates.ToDisplay(a.Date),
				orDash(a.Time),
				string(a.Status),
			},
		})
	}
	return table, nil
}

// SetStatus sends a partial update changing only the appointment status.
// The cache is never updated optimistically: callers re-list on success,
// and on rejection the next list shows the authoritative value.
func (m *Appointments) SetStatus(ctx context.Context, id int64, status medcore.Status) error {
	if _, err := m.api.UpdateAppointmentStatus(ctx, id, status); err != nil {
		m.logger.Error("update appointment status failed", "id", id, "status", status, "error", err)
		m.notify.Notify("Could not update the appointment status.")
		return err
	}
	return nil
}

// Delete removes an appointment together with its patient. The patient
// reference comes from the cached collection; a cache miss aborts without
// a fresh fetch. Deleting the patient lets the backend cascade away every
// appointment of that patient, keeping the two views consistent. When the
// patient delete is rejected the module degrades to deleting only the
// appointment, accepting a possible dangling patient record.
func (m *Appointments) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm("Delete this appointment? The patient record will also be removed.") {
		return nil
	}

	m.mu.Lock()
	var cached *medcore.Appointment
	for i := range m.cache {
		if m.cache[i].ID == id {
			cached = &m.cache[i]
			break
		}
	}
	m.mu.Unlock()

	if cached == nil {
		m.logger.Error("appointment missing from cache", "id", id)
		m.notify.Notify("Could not complete the delete.")
		return fmt.Errorf("console: appointment %d: %w", id, ErrNotInCache)
	}

	if err := m.api.DeletePatient(ctx, cached.PatientID); err != nil {
		m.logger.Warn("patient delete rejected, falling back to appointment delete",
			"appointment_id", id,
			"patient_id", cached.PatientID,
			"error", err,
		)
		if fallbackErr := m.api.DeleteAppointment(ctx, id); fallbackErr != nil {
			m.logger.Error("fallback appointment delete failed", "id", id, "error", fallbackErr)
			m.notify.Notify("Could not complete the delete.")
			return fmt.Errorf("console: cascade delete of appointment %d failed: patient: %v; appointment: %w", id, err, fallbackErr)
		}
		m.notify.Notify("Appointment removed. The patient record was kept.")
		return nil
	}

	m.notify.Notify("Appointment and patient record removed.")
	return nil
}

// Cached returns a copy of the last listed collection.
func (m *Appointments) Cached() []medcore.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]medcore.Appointment, len(m.cache))
	copy(out, m.cache)
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
