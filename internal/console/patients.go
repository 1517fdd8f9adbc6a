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

// Patients is the patient admin module. Creating a patient also books the
// patient's first appointment; updating never touches appointments.
type Patients struct {
	api    *medcore.Client
	notify Notifier
	logger *logging.Logger

	mu    sync.Mutex
	cache []medcore.Patient
}

// NewPatients creates the patients module.
func NewPatients(api *medcore.Client, notify Notifier, logger *logging.Logger) *Patients {
	if logger == nil {
		logger = logging.Default()
	}
	return &Patients{api: api, notify: notify, logger: logger.WithComponent("patients")}
}

// PatientForm mirrors the patient form fields plus the first-appointment
// fields that are only used on create.
type PatientForm struct {
	ID        string
	Name      string
	TaxID     string
	BirthDate string
	Phone     string
	Email     string

	// First appointment, required on create, ignored on update.
	Procedure       string
	AppointmentDate string
	AppointmentTime string
}

// PartialSaveError reports that the patient record was created but its
// dependent appointment was not. The caller must not blindly retry the
// whole save: that would register the patient twice.
type PartialSaveError struct {
	Patient *medcore.Patient
	Err     error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("console: patient %d saved but appointment creation failed: %v", e.Patient.ID, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// List fetches patients filtered by name and tax ID, replaces the cache and
// returns the rendered table.
func (m *Patients) List(ctx context.Context, name, taxID string) (*Table, error) {
	items, err := m.api.ListPatients(ctx, medcore.PatientFilter{
		Name:  strings.TrimSpace(name),
		TaxID: strings.TrimSpace(taxID),
	})
	if err != nil {
		m.logger.Error("list patients failed", "error", err)
		m.notify.Notify("Could not load patients.")
		return nil, err
	}

	m.mu.Lock()
	m.cache = items
	m.mu.Unlock()

	table := &Table{
		Columns: []string{"ID", "Name", "Tax ID", "Birth Date", "Phone", "Email"},
		Empty:   "No patients found.",
	}
	for _, p := range items {
		table.Rows = append(table.Rows, Row{
			ID: p.ID,
			Cells: []string{
				strconv.FormatInt(p.ID, 10),
				p.Name,
				p.TaxID,
				dates.ToDisplay(p.BirthDate),
				orDash(p.Phone),
				orDash(p.Email),
			},
		})
	}
	return table, nil
}

// Save creates or updates a patient. On create the form must also carry the
// first appointment, which is booked with status Scheduled right after the
// patient; if that second call fails the patient still exists and the
// failure is reported as a PartialSaveError.
func (m *Patients) Save(ctx context.Context, form PatientForm) error {
	name := strings.TrimSpace(form.Name)
	taxID := strings.TrimSpace(form.TaxID)
	if name == "" || taxID == "" {
		m.notify.Notify("Name and tax ID are required.")
		return fmt.Errorf("%w: name and tax id are required", ErrValidation)
	}

	updating := form.ID != ""
	if !updating {
		if strings.TrimSpace(form.Procedure) == "" || strings.TrimSpace(form.AppointmentDate) == "" || strings.TrimSpace(form.AppointmentTime) == "" {
			m.notify.Notify("Fill in the appointment details for the new patient.")
			return fmt.Errorf("%w: appointment details are required for a new patient", ErrValidation)
		}
	}

	in := medcore.PatientInput{
		Name:      name,
		TaxID:     taxID,
		BirthDate: dates.ToStorage(form.BirthDate),
		Phone:     strings.TrimSpace(form.Phone),
		Email:     strings.TrimSpace(form.Email),
	}

	if updating {
		id, err := strconv.ParseInt(form.ID, 10, 64)
		if err != nil {
			m.notify.Notify("Invalid patient identifier.")
			return fmt.Errorf("%w: invalid patient id %q", ErrValidation, form.ID)
		}
		if _, err := m.api.UpdatePatient(ctx, id, in); err != nil {
			m.logger.Error("update patient failed", "id", id, "error", err)
			m.notify.Notify("Could not save the patient.")
			return err
		}
		m.notify.Notify("Patient updated.")
		return nil
	}

	created, err := m.api.CreatePatient(ctx, in)
	if err != nil {
		m.logger.Error("create patient failed", "error", err)
		m.notify.Notify("Could not save the patient.")
		return err
	}

	_, err = m.api.CreateAppointment(ctx, medcore.AppointmentInput{
		PatientID: created.ID,
		Procedure: strings.TrimSpace(form.Procedure),
		Date:      dates.ToStorage(form.AppointmentDate),
		Time:      strings.TrimSpace(form.AppointmentTime),
		Status:    medcore.StatusScheduled,
	})
	if err != nil {
		m.logger.Error("dependent appointment creation failed",
			"patient_id", created.ID,
			"error", err,
		)
		m.notify.Notify("Patient saved, but the appointment could not be created. Do not register the patient again.")
		return &PartialSaveError{Patient: created, Err: err}
	}

	m.notify.Notify("Patient and appointment registered.")
	return nil
}

// Fill fetches a patient by ID to repopulate the form for editing. Unlike
// the other modules this goes to the backend, not the cache, and clears the
// appointment fields: editing only changes the patient.
func (m *Patients) Fill(ctx context.Context, id int64) (*PatientForm, error) {
	p, err := m.api.GetPatient(ctx, id)
	if err != nil {
		m.logger.Error("fetch patient failed", "id", id, "error", err)
		if medcore.IsNotFound(err) {
			m.notify.Notify("Patient not found.")
		} else {
			m.notify.Notify("Could not load the patient.")
		}
		return nil, err
	}
	return &PatientForm{
		ID:        strconv.FormatInt(p.ID, 10),
		Name:      p.Name,
		TaxID:     p.TaxID,
		BirthDate: dates.ToStorage(p.BirthDate),
		Phone:     p.Phone,
		Email:     p.Email,
	}, nil
}

// Delete removes a patient after confirmation. The backend cascades the
// delete to every appointment owned by the patient.
func (m *Patients) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm("Delete this patient? Every appointment linked to the patient will also be deleted.") {
		return nil
	}
	if err := m.api.DeletePatient(ctx, id); err != nil {
		m.logger.Error("delete patient failed", "id", id, "error", err)
		m.notify.Notify("Could not delete the patient.")
		return err
	}
	m.notify.Notify("Patient and linked appointments deleted.")
	return nil
}
