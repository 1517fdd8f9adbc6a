package patients

import "strings"

// Patient represents a patient record. BirthDate uses YYYY-MM-DD or is
// empty when unknown.
type Patient struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Input represents the writable fields of a patient.
type Input struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
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

// Filter selects patients by name and tax ID substring. Zero values match
// everything.
type Filter struct {
	Name  string
	TaxID string
}
