package medcore

// Status is an appointment status. The client sends whatever it is given;
// only the backend decides whether a transition is acceptable.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCanceled  Status = "Canceled"
)

// Statuses lists every status the console offers in its select control.
var Statuses = []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCanceled}

// Position is a job position record.
type Position struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Salary      float64 `json:"salary"`
	Description string  `json:"description,omitempty"`
}

// PositionInput carries the writable fields of a position.
type PositionInput struct {
	Name        string  `json:"name"`
	Salary      float64 `json:"salary"`
	Description string  `json:"description,omitempty"`
}

// Employee is a clinic employee record. PositionName is denormalized by the
// backend; it is empty when the employee has no position.
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

// EmployeeInput carries the writable fields of an employee.
type EmployeeInput struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	// Optional reference to a position.
	PositionID *int64 `json:"position_id,omitempty"`
}

// EmployeeFilter selects employees by name and tax ID substring.
// Zero values match everything.
type EmployeeFilter struct {
	Name  string
	TaxID string
}

// Patient is a patient record.
type Patient struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// PatientInput carries the writable fields of a patient.
type PatientInput struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// PatientFilter selects patients by name and tax ID substring.
type PatientFilter struct {
	Name  string
	TaxID string
}

// Appointment is an appointment record. PatientName and PatientTaxID are
// denormalized by the backend from the owning patient.
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

// AppointmentInput carries the writable fields of an appointment.
// An empty Status lets the backend default to Scheduled.
type AppointmentInput struct {
	PatientID int64  `json:"patient_id"`
	Procedure string `json:"procedure"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    Status `json:"status,omitempty"`
}

// Counts holds per-entity record totals for the dashboard.
type Counts struct {
	Patients     int64 `json:"patients"`
	Appointments int64 `json:"appointments"`
	Employees    int64 `json:"employees"`
	Positions    int64 `json:"positions"`
}
