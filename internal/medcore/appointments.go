package medcore

import (
	"context"
	"fmt"
	"net/http"
)

// ListAppointments returns the full appointment collection. The backend
// offers no filters for appointments; filtering happens client-side.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAppointment creates an appointment. An empty Status defaults to
// Scheduled on the backend.
func (c *Client) CreateAppointment(ctx context.Context, in AppointmentInput) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointmentStatus issues a partial update changing only the status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	payload := struct {
		Status Status `json:"status"`
	}{Status: status}
	var out Appointment
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/appointments/%d", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAppointment removes a single appointment without touching its
// patient. The console's cascading delete prefers DeletePatient and only
// falls back to this call when the patient delete is rejected.
func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/appointments/%d", id), nil, nil, nil)
}

// GetCounts returns per-entity record totals.
func (c *Client) GetCounts(ctx context.Context) (*Counts, error) {
	var out Counts
	if err := c.do(ctx, http.MethodGet, "/counts", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
