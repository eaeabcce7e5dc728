package backend

import (
	"context"
	"net/http"
)

func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/checkout", nil, req, nil)
	return err
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.getJSON(ctx, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id int64) (*Order, error) {
	var o Order
	if err := c.getJSON(ctx, idPath("/api/orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	_, err := c.sendJSON(ctx, http.MethodPut, idPath("/api/orders/%d/cancel", id), nil, nil, nil)
	return err
}
