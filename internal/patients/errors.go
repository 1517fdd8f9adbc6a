package patients

import "errors"

var (
	// ErrNameRequired is returned when the name is missing
	ErrNameRequired = errors.New("name is required")

	// ErrTaxIDRequired is returned when the tax ID is missing
	ErrTaxIDRequired = errors.New("tax id is required")

	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicateTaxID is returned when another patient already carries the tax ID
	ErrDuplicateTaxID = errors.New("tax id already registered")
)
