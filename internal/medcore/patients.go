package medcore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPatients returns patients matching the filter.
func (c *Client) ListPatients(ctx context.Context, filter PatientFilter) ([]Patient, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.TaxID != "" {
		query.Set("tax_id", filter.TaxID)
	}
	var out []Patient
	if err := c.do(ctx, http.MethodGet, "/patients", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPatient fetches a single patient.
func (c *Client) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	var out Patient
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePatient creates a patient and returns it with its assigned ID.
func (c *Client) CreatePatient(ctx context.Context, in PatientInput) (*Patient, error) {
	var out Patient
	if err := c.do(ctx, http.MethodPost, "/patients", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePatient replaces the writable fields of a patient.
func (c *Client) UpdatePatient(ctx context.Context, id int64, in PatientInput) (*Patient, error) {
	var out Patient
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/patients/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePatient removes a patient. The backend cascades the delete to every
// appointment owned by the patient.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, nil, nil)
}
