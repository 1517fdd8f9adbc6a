package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository defines the interface for appointment storage
type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	Create(ctx context.Context, in *Input) (*Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu           sync.RWMutex
	seq          int64
	appointments map[int64]*Appointment

	// ResolvePatient, when set, supplies the denormalized patient fields
	// and validates the reference the way the foreign key does.
	ResolvePatient func(ctx context.Context, patientID int64) (name, taxID string, ok bool)
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[int64]*Appointment)}
}

// List returns the full collection, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		copy := *a
		if r.ResolvePatient != nil {
			if name, taxID, ok := r.ResolvePatient(ctx, copy.PatientID); ok {
				copy.PatientName = name
				copy.PatientTaxID = taxID
			}
		}
		out = append(out, copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Create adds a new appointment.
func (r *InMemoryRepository) Create(ctx context.Context, in *Input) (*Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if r.ResolvePatient != nil {
		if _, _, ok := r.ResolvePatient(ctx, in.PatientID); !ok {
			return nil, ErrPatientNotFound
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a := &Appointment{
		ID:        r.seq,
		PatientID: in.PatientID,
		Procedure: strings.TrimSpace(in.Procedure),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Status:    in.Status,
	}
	r.appointments[a.ID] = a
	out := *a
	return &out, nil
}

// UpdateStatus changes only the appointment status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = status
	out := *a
	return &out, nil
}

// Delete removes a single appointment.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}

// DeleteByPatient removes every appointment owned by the patient. It plugs
// into the patients repository's cascade hook.
func (r *InMemoryRepository) DeleteByPatient(ctx context.Context, patientID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.appointments {
		if a.PatientID == patientID {
			delete(r.appointments, id)
		}
	}
}
