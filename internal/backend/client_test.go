package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", MaxRetries: 2})
}

func TestLoginCapturesCookiesAndRole(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "/orders", r.URL.Query().Get("redirect"))

		var body LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.vn", body.Email)

		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"user":{"id":7,"email":"a@b.vn","username":"an","role":[{"authority":"ROLE_ADMIN"}]},"redirect":"/admin"}`)
	})

	res, err := client.Login(context.Background(), "a@b.vn", "secret", "/orders")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.User.ID)
	assert.True(t, res.User.IsAdmin())
	assert.Equal(t, "/admin", res.Redirect)
	assert.Equal(t, []Cookie{{Name: "JSESSIONID", Value: "abc"}}, res.Cookies)
}

func TestCookiesFromContextAreSent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("JSESSIONID"); assert.NoError(t, err) {
			assert.Equal(t, "abc", ck.Value)
		}
		_, _ = io.WriteString(w, `{"cartItems":[{"variantId":3,"quantity":2,"price":100000,"discount":10}]}`)
	})

	ctx := WithCookies(context.Background(), []Cookie{{Name: "JSESSIONID", Value: "abc"}})
	lines, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].VariantID)
	assert.True(t, decimal.NewFromInt(100000).Equal(lines[0].Price))
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"id":5,"stock":4,"size":{"id":1,"value":"42"},"color":"đỏ","productId":9}`)
	})

	v, err := client.Variant(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, Label("42"), v.Size)
	assert.Equal(t, Label("đỏ"), v.Color)
	assert.Equal(t, int64(9), v.ProductID)
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.Checkout(context.Background(), CheckoutRequest{Address: "HN", Phone: "0900"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Không tìm thấy sản phẩm"}`)
	})

	_, err := client.Product(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Không tìm thấy sản phẩm", apiErr.Message)
}

func TestOversizedResponseIsRefused(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"id":5,"stock":4,"size":"42","color":"`+strings.Repeat("x", 256)+`"}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Options{BaseURL: srv.URL, MaxRetries: 2, MaxResponseBytes: 64})

	_, err := client.Variant(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Equal(t, int32(1), calls.Load(), "an oversized answer is not retried")

	client = NewClient(Options{BaseURL: srv.URL, MaxResponseBytes: 1024})
	v, err := client.Variant(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.ID)
}

func TestProductsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "12", q.Get("size"))
		assert.Equal(t, "nike", q.Get("search"))
		assert.Equal(t, "4", q.Get("categoryId"))
		assert.Equal(t, []string{"40", "41"}, q["sizes"])
		_, _ = io.WriteString(w, `{"content":[{"id":1,"name":"Air","price":1500000,"discount":20}],"number":1,"size":12,"totalPages":3}`)
	})

	page, err := client.Products(context.Background(), ProductQuery{Page: 1, Size: 12, Search: "nike", CategoryID: 4, Sizes: []string{"40", "41"}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 20, page.Content[0].Discount)
}

func TestAdminOrdersAcceptsBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"status":0,"items":[]},{"id":2,"status":4,"items":[]}]`)
	})

	page, err := client.AdminOrders(context.Background(), 0, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 1, page.TotalPages)
}

func TestAllOrdersWalksEveryPage(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "100", r.URL.Query().Get("size"))
		switch r.URL.Query().Get("page") {
		case "0":
			_, _ = io.WriteString(w, `{"content":[{"id":1,"status":0,"items":[]},{"id":2,"status":3,"items":[]}],"totalPages":2}`)
		case "1":
			_, _ = io.WriteString(w, `{"content":[{"id":3,"status":4,"items":[]}],"totalPages":2}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	list, err := client.AllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[2].ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAddProductSendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/products/add", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		productFile, header, err := r.FormFile("product")
		if assert.NoError(t, err) {
			assert.Equal(t, "application/json", header.Header.Get("Content-Type"))
			var form ProductForm
			assert.NoError(t, json.NewDecoder(productFile).Decode(&form))
			assert.Equal(t, "Jordan 1", form.Name)
			assert.Len(t, form.Variants, 1)
		}

		img, imgHeader, err := r.FormFile("file")
		if assert.NoError(t, err) {
			assert.Equal(t, "shoe.png", imgHeader.Filename)
			data, _ := io.ReadAll(img)
			assert.Equal(t, "png-bytes", string(data))
		}
	})

	form := ProductForm{
		Name:       "Jordan 1",
		Price:      decimal.NewFromInt(3500000),
		CategoryID: 5,
		Variants:   []VariantForm{{Size: "42", Color: "đỏ", Stock: 3}},
	}
	err := client.AddProduct(context.Background(), form, &Upload{Filename: "shoe.png", ContentType: "image/png", Content: stringsReader("png-bytes")})
	require.NoError(t, err)
}

func TestEditProductKeepsOldImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		if productFile, _, err := r.FormFile("product"); assert.NoError(t, err) {
			var form ProductForm
			assert.NoError(t, json.NewDecoder(productFile).Decode(&form))
			assert.Equal(t, "/uploads/images/old.png", form.OldImg)
		}
		_, _, err := r.FormFile("file")
		assert.ErrorIs(t, err, http.ErrMissingFile)
	})

	err := client.EditProduct(context.Background(), ProductForm{ID: 3, Name: "x", OldImg: "/uploads/images/old.png"}, nil)
	require.NoError(t, err)
}
