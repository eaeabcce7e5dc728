package backend

import (
	"context"
	"net/http"
)

type cartResponse struct {
	CartItems []CartLine `json:"cartItems"`
}

func (c *Client) Cart(ctx context.Context) ([]CartLine, error) {
	var out cartResponse
	if err := c.getJSON(ctx, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.CartItems, nil
}

func (c *Client) AddToCart(ctx context.Context, line CartLine) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/cart/add", nil, line, nil)
	return err
}

func (c *Client) UpdateCartItem(ctx context.Context, variantID int64, quantity int) error {
	_, err := c.sendJSON(ctx, http.MethodPut, "/api/cart/update", nil, MergeItem{VariantID: variantID, Quantity: quantity}, nil)
	return err
}

func (c *Client) RemoveCartItem(ctx context.Context, variantID int64) error {
	_, err := c.sendJSON(ctx, http.MethodDelete, idPath("/api/cart/remove/%d", variantID), nil, nil, nil)
	return err
}

// MergeCart folds guest items into the server cart and returns the result.
func (c *Client) MergeCart(ctx context.Context, items []MergeItem) ([]CartLine, error) {
	if items == nil {
		items = []MergeItem{}
	}
	var out cartResponse
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/cart/merge", nil, items, &out); err != nil {
		return nil, err
	}
	return out.CartItems, nil
}
