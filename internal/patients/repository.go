package patients

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository defines the interface for patient storage
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Patient, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Create(ctx context.Context, in *Input) (*Patient, error)
	Update(ctx context.Context, id int64, in *Input) (*Patient, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	seq      int64
	patients map[int64]*Patient

	// Cascade, when set, runs after a successful delete the way the
	// appointments foreign key cascade does in the database.
	Cascade func(ctx context.Context, patientID int64)
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[int64]*Patient)}
}

// List returns patients matching the filter, ordered by name.
func (r *InMemoryRepository) List(ctx context.Context, filter Filter) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	taxID := strings.TrimSpace(filter.TaxID)
	out := make([]Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if taxID != "" && !strings.Contains(p.TaxID, taxID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := *p
	return &out, nil
}

// Create adds a new patient.
func (r *InMemoryRepository) Create(ctx context.Context, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	taxID := strings.TrimSpace(in.TaxID)
	for _, p := range r.patients {
		if p.TaxID == taxID {
			return nil, ErrDuplicateTaxID
		}
	}
	r.seq++
	p := &Patient{
		ID:        r.seq,
		Name:      strings.TrimSpace(in.Name),
		TaxID:     taxID,
		BirthDate: strings.TrimSpace(in.BirthDate),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}
	r.patients[p.ID] = p
	out := *p
	return &out, nil
}

// Update replaces the writable fields of a patient.
func (r *InMemoryRepository) Update(ctx context.Context, id int64, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	taxID := strings.TrimSpace(in.TaxID)
	for _, other := range r.patients {
		if other.ID != id && other.TaxID == taxID {
			return nil, ErrDuplicateTaxID
		}
	}
	p.Name = strings.TrimSpace(in.Name)
	p.TaxID = taxID
	p.BirthDate = strings.TrimSpace(in.BirthDate)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.TrimSpace(in.Email)
	out := *p
	return &out, nil
}

// Delete removes a patient and cascades to its appointments.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	if _, ok := r.patients[id]; !ok {
		r.mu.Unlock()
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	cascade := r.Cascade
	r.mu.Unlock()

	if cascade != nil {
		cascade(ctx, id)
	}
	return nil
}
