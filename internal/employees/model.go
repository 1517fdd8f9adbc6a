package employees

import "strings"

// Employee represents a clinic employee. PositionName is denormalized
// from the positions table and is empty when the employee has no
// position.
type Employee struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	BirthDate    string `json:"birth_date,omitempty"`
	Address      string `json:"address,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PositionID   *int64 `json:"position_id,omitempty"`
	PositionName string `json:"position_name,omitempty"`
}

// Input represents the writable fields of an employee.
type Input struct {
	Name       string `json:"name"`
	TaxID      string `json:"tax_id"`
	BirthDate  string `json:"birth_date,omitempty"`
	Address    string `json:"address,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PositionID *int64 `json:"position_id,omitempty"`
}

// Validate validates the input.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.TaxID) == "" {
		return ErrTaxIDRequired
	}
	return nil
}

// Filter selects employees by name and tax ID substring. Zero values
// match everything.
type Filter struct {
	Name  string
	TaxID string
}
