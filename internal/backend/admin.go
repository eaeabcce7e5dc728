package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

// Upload is an image file forwarded to the backend as the "file" part.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

func pageValues(page, size int, search string) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	v.Set("search", search)
	return v
}

func (c *Client) AdminProducts(ctx context.Context, page, size int, search string) (*ProductPage, error) {
	var out ProductPage
	if err := c.getJSON(ctx, "/api/admin/products", pageValues(page, size, search), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, idPath("/api/admin/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddProduct(ctx context.Context, form ProductForm, file *Upload) error {
	if file == nil {
		return fmt.Errorf("add product: image file is required")
	}
	return c.postProduct(ctx, "/api/admin/products/add", form, file)
}

// EditProduct updates a product. Without a new file the current image path
// must be carried in form.OldImg.
func (c *Client) EditProduct(ctx context.Context, form ProductForm, file *Upload) error {
	if file != nil {
		form.OldImg = ""
	}
	return c.postProduct(ctx, "/api/admin/products/edit", form, file)
}

func (c *Client) postProduct(ctx context.Context, path string, form ProductForm, file *Upload) error {
	body, contentType, err := productMultipart(form, file)
	if err != nil {
		return fmt.Errorf("build %s body: %w", path, err)
	}
	_, err = c.send(ctx, request{method: http.MethodPost, path: path, body: body, contentType: contentType})
	return err
}

func productMultipart(form ProductForm, file *Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="product"; filename="blob"`)
	header.Set("Content-Type", "application/json")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(form); err != nil {
		return nil, "", err
	}

	if file != nil {
		fileHeader := make(textproto.MIMEHeader)
		fileHeader.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Filename)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fileHeader.Set("Content-Type", contentType)
		filePart, err := w.CreatePart(fileHeader)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(filePart, file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) AddCategory(ctx context.Context, name string, parentID *int64) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/admin/categories/add", nil, NewCategory{Name: name, ParentID: parentID}, nil)
	return err
}

func (c *Client) AdminOrders(ctx context.Context, page, size int, search string) (*OrderPage, error) {
	var out OrderPage
	if err := c.getJSON(ctx, "/api/admin/orders", pageValues(page, size, search), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const (
	allOrdersPageSize = 100
	maxAllOrdersPages = 50
)

// AllOrders walks the admin order pages for dashboard figures. The walk
// stops after maxAllOrdersPages pages.
func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var all []Order
	for page := 0; page < maxAllOrdersPages; page++ {
		var out OrderPage
		if err := c.getJSON(ctx, "/api/admin/orders", pageValues(page, allOrdersPageSize, ""), &out); err != nil {
			return nil, err
		}
		all = append(all, out.Content...)
		if len(out.Content) == 0 || page+1 >= out.TotalPages {
			break
		}
	}
	return all, nil
}

func (c *Client) AdminOrder(ctx context.Context, id int64) (*Order, error) {
	var o Order
	if err := c.getJSON(ctx, idPath("/api/admin/orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status int) error {
	body := struct {
		Status int `json:"status"`
	}{Status: status}
	_, err := c.sendJSON(ctx, http.MethodPut, idPath("/api/admin/orders/%d/status", id), nil, body, nil)
	return err
}
