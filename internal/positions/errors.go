package positions

import "errors"

var (
	// ErrNameRequired is returned when the name is missing
	ErrNameRequired = errors.New("name is required")

	// ErrInvalidSalary is returned when the salary is negative
	ErrInvalidSalary = errors.New("salary must not be negative")

	// ErrPositionNotFound is returned when a position is not found
	ErrPositionNotFound = errors.New("position not found")

	// ErrPositionInUse is returned when employees still reference the position
	ErrPositionInUse = errors.New("position is assigned to employees")
)
