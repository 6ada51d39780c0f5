package client

import (
	"context"
	"fmt"
	"net/http"
)

// GetCustomer fetches one customer by ID.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	resp, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("customers/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := resp.JSON(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer replaces a customer's mutable fields.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, customer any) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("customers/%d", id), &RequestOptions{Body: customer})
	return err
}
