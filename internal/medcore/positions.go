package medcore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPositions returns positions whose name contains the filter substring.
// An empty filter matches everything.
func (c *Client) ListPositions(ctx context.Context, name string) ([]Position, error) {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	var out []Position
	if err := c.do(ctx, http.MethodGet, "/positions", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePosition creates a position and returns it with its assigned ID.
func (c *Client) CreatePosition(ctx context.Context, in PositionInput) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPost, "/positions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePosition replaces the writable fields of a position.
func (c *Client) UpdatePosition(ctx context.Context, id int64, in PositionInput) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/positions/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePosition removes a position. The backend rejects the delete while
// employees still reference the position.
func (c *Client) DeletePosition(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/positions/%d", id), nil, nil, nil)
}
