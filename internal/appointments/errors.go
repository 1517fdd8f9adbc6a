package appointments

import "errors"

var (
	// ErrPatientRequired is returned when the patient reference is missing
	ErrPatientRequired = errors.New("patient is required")

	// ErrProcedureRequired is returned when the procedure is missing
	ErrProcedureRequired = errors.New("procedure is required")

	// ErrDateRequired is returned when the date is missing
	ErrDateRequired = errors.New("date is required")

	// ErrTimeRequired is returned when the time is missing
	ErrTimeRequired = errors.New("time is required")

	// ErrInvalidStatus is returned when the status is not an accepted value
	ErrInvalidStatus = errors.New("invalid status")

	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPatientNotFound is returned when the referenced patient does not exist
	ErrPatientNotFound = errors.New("patient not found")
)
