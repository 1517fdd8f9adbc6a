package positions

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository defines the interface for position storage
type Repository interface {
	List(ctx context.Context, name string) ([]Position, error)
	Create(ctx context.Context, in *Input) (*Position, error)
	Update(ctx context.Context, id int64, in *Input) (*Position, error)
	Delete(ctx context.Context, id int64) error
}

// ReferenceChecker reports whether any employee still references the
// position. The in-memory repository uses it to mirror the database's
// foreign key rejection.
type ReferenceChecker func(ctx context.Context, positionID int64) bool

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	seq       int64
	positions map[int64]*Position

	// InUse, when set, guards Delete the way the employees foreign key
	// does in the database.
	InUse ReferenceChecker
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{positions: make(map[int64]*Position)}
}

// List returns positions whose name contains the filter, ordered by name.
func (r *InMemoryRepository) List(ctx context.Context, name string) ([]Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(name))
	out := make([]Position, 0, len(r.positions))
	for _, p := range r.positions {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create adds a new position.
func (r *InMemoryRepository) Create(ctx context.Context, in *Input) (*Position, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p := &Position{
		ID:          r.seq,
		Name:        strings.TrimSpace(in.Name),
		Salary:      in.Salary,
		Description: strings.TrimSpace(in.Description),
	}
	r.positions[p.ID] = p
	out := *p
	return &out, nil
}

// Update replaces the writable fields of a position.
func (r *InMemoryRepository) Update(ctx context.Context, id int64, in *Input) (*Position, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.positions[id]
	if !ok {
		return nil, ErrPositionNotFound
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Salary = in.Salary
	p.Description = strings.TrimSpace(in.Description)
	out := *p
	return &out, nil
}

// Delete removes a position unless employees still reference it.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.positions[id]; !ok {
		return ErrPositionNotFound
	}
	if r.InUse != nil && r.InUse(ctx, id) {
		return ErrPositionInUse
	}
	delete(r.positions, id)
	return nil
}
