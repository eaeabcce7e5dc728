package backend

import (
	"context"
	"net/url"
	"strconv"
)

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	v.Set("search", q.Search)
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	for _, s := range q.Sizes {
		v.Add("sizes", s)
	}
	return v
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var page ProductPage
	if err := c.getJSON(ctx, "/api/products", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, idPath("/api/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Variant(ctx context.Context, id int64) (*Variant, error) {
	var v Variant
	if err := c.getJSON(ctx, idPath("/api/product-variants/%d", id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CategoryTree returns the root categories with their nested children.
func (c *Client) CategoryTree(ctx context.Context) ([]Category, error) {
	var tree []Category
	if err := c.getJSON(ctx, "/api/admin/categories/tree", nil, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
