package employees

import "errors"

var (
	// ErrNameRequired is returned when the name is missing
	ErrNameRequired = errors.New("name is required")

	// ErrTaxIDRequired is returned when the tax ID is missing
	ErrTaxIDRequired = errors.New("tax id is required")

	// ErrEmployeeNotFound is returned when an employee is not found
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateTaxID is returned when another employee already carries the tax ID
	ErrDuplicateTaxID = errors.New("tax id already registered")

	// ErrPositionNotFound is returned when the referenced position does not exist
	ErrPositionNotFound = errors.New("position not found")
)
