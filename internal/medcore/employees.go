package medcore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListEmployees returns employees matching the filter. Each record carries
// the denormalized position name when the employee has one.
func (c *Client) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.TaxID != "" {
		query.Set("tax_id", filter.TaxID)
	}
	var out []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee creates an employee and returns it with its assigned ID.
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, "/employees", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee replaces the writable fields of an employee.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/employees/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil, nil, nil)
}
