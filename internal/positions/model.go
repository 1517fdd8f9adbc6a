package positions

import "strings"

// Position represents a job position offered by the clinic.
type Position struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Salary      float64 `json:"salary"`
	Description string  `json:"description,omitempty"`
}

// Input represents the writable fields of a position.
type Input struct {
	Name        string  `json:"name"`
	Salary      float64 `json:"salary"`
	Description string  `json:"description,omitempty"`
}

// Validate validates the input.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Salary < 0 {
		return ErrInvalidSalary
	}
	return nil
}
