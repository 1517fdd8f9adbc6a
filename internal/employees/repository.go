package employees

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository defines the interface for employee storage
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Employee, error)
	Create(ctx context.Context, in *Input) (*Employee, error)
	Update(ctx context.Context, id int64, in *Input) (*Employee, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	seq       int64
	employees map[int64]*Employee

	// ResolvePosition, when set, supplies the denormalized position name
	// and validates the reference the way the foreign key does.
	ResolvePosition func(ctx context.Context, positionID int64) (string, bool)
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{employees: make(map[int64]*Employee)}
}

// List returns employees matching the filter, ordered by name.
func (r *InMemoryRepository) List(ctx context.Context, filter Filter) ([]Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	taxID := strings.TrimSpace(filter.TaxID)
	out := make([]Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if taxID != "" && !strings.Contains(e.TaxID, taxID) {
			continue
		}
		copy := *e
		if copy.PositionID != nil && r.ResolvePosition != nil {
			if resolved, ok := r.ResolvePosition(ctx, *copy.PositionID); ok {
				copy.PositionName = resolved
			}
		}
		out = append(out, copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create adds a new employee.
func (r *InMemoryRepository) Create(ctx context.Context, in *Input) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkPosition(ctx, in.PositionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	taxID := strings.TrimSpace(in.TaxID)
	for _, e := range r.employees {
		if e.TaxID == taxID {
			return nil, ErrDuplicateTaxID
		}
	}
	r.seq++
	e := &Employee{
		ID:         r.seq,
		Name:       strings.TrimSpace(in.Name),
		TaxID:      taxID,
		BirthDate:  strings.TrimSpace(in.BirthDate),
		Address:    strings.TrimSpace(in.Address),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		PositionID: in.PositionID,
	}
	r.employees[e.ID] = e
	out := *e
	return &out, nil
}

// Update replaces the writable fields of an employee.
func (r *InMemoryRepository) Update(ctx context.Context, id int64, in *Input) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkPosition(ctx, in.PositionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	taxID := strings.TrimSpace(in.TaxID)
	for _, other := range r.employees {
		if other.ID != id && other.TaxID == taxID {
			return nil, ErrDuplicateTaxID
		}
	}
	e.Name = strings.TrimSpace(in.Name)
	e.TaxID = taxID
	e.BirthDate = strings.TrimSpace(in.BirthDate)
	e.Address = strings.TrimSpace(in.Address)
	e.Email = strings.TrimSpace(in.Email)
	e.Phone = strings.TrimSpace(in.Phone)
	e.PositionID = in.PositionID
	out := *e
	return &out, nil
}

// Delete removes an employee.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

// HasPosition reports whether any employee references the position. It
// plugs into the positions repository's reference check.
func (r *InMemoryRepository) HasPosition(ctx context.Context, positionID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.employees {
		if e.PositionID != nil && *e.PositionID == positionID {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) checkPosition(ctx context.Context, positionID *int64) error {
	if positionID == nil || r.ResolvePosition == nil {
		return nil
	}
	if _, ok := r.ResolvePosition(ctx, *positionID); !ok {
		return ErrPositionNotFound
	}
	return nil
}
