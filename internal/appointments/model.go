package appointments

import "strings"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCanceled  Status = "Canceled"
)

// ValidStatus reports whether s is one of the accepted statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment represents a booked procedure. PatientName and PatientTaxID
// are denormalized from the owning patient. Date uses YYYY-MM-DD and Time
// uses HH:MM.
type Appointment struct {
	ID           int64  `json:"id"`
	PatientID    int64  `json:"patient_id"`
	Procedure    string `json:"procedure"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       Status `json:"status"`
	PatientName  string `json:"patient_name,omitempty"`
	PatientTaxID string `json:"patient_tax_id,omitempty"`
}

// Input represents the writable fields of an appointment. An empty Status
// defaults to Scheduled.
type Input struct {
	PatientID int64  `json:"patient_id"`
	Procedure string `json:"procedure"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    Status `json:"status,omitempty"`
}

// Validate validates the input and applies the status default.
func (in *Input) Validate() error {
	if in.PatientID <= 0 {
		return ErrPatientRequired
	}
	if strings.TrimSpace(in.Procedure) == "" {
		return ErrProcedureRequired
	}
	if strings.TrimSpace(in.Date) == "" {
		return ErrDateRequired
	}
	if strings.TrimSpace(in.Time) == "" {
		return ErrTimeRequired
	}
	if in.Status == "" {
		in.Status = StatusScheduled
	}
	if !ValidStatus(in.Status) {
		return ErrInvalidStatus
	}
	return nil
}
