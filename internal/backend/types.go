package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

const RoleAdmin = "ROLE_ADMIN"

func init() {
	// the backend binds prices to BigDecimal and expects JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Role decodes either a plain string or the Spring Security authority list
// (`[{"authority":"ROLE_USER"}]`). Only the first authority is kept.
type Role string

func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '[' {
		var authorities []struct {
			Authority string `json:"authority"`
		}
		if err := json.Unmarshal(data, &authorities); err != nil {
			return err
		}
		*r = ""
		if len(authorities) > 0 {
			*r = Role(authorities[0].Authority)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Role(s)
	return nil
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Label is a variant attribute (size or colour). The backend sends either a
// bare string or an object such as {"id":1,"name":"đỏ"} / {"id":3,"value":"42"}.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Name != "" {
			*l = Label(obj.Name)
			return nil
		}
		*l = Label(rawText(obj.Value))
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	default:
		// numeric sizes such as 42
		*l = Label(string(data))
		return nil
	}
}

func (l Label) String() string { return string(l) }

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Children []Category `json:"children"`
}

type Variant struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productId,omitempty"`
	Stock     int   `json:"stock"`
	Size      Label `json:"size"`
	Color     Label `json:"color"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	ImageURL    string          `json:"imageUrl"`
	CategoryID  int64           `json:"categoryId"`
	Variants    []Variant       `json:"variants"`
	TotalSold   int             `json:"totalSold,omitempty"`
}

type ProductPage struct {
	Content    []Product `json:"content"`
	Number     int       `json:"number"`
	Size       int       `json:"size"`
	TotalPages int       `json:"totalPages"`
	First      bool      `json:"first"`
	Last       bool      `json:"last"`
}

type ProductQuery struct {
	Page       int
	Size       int
	Search     string
	CategoryID int64
	Sizes      []string
}

// CartLine is one row of the server cart and also the payload of /api/cart/add.
type CartLine struct {
	VariantID       int64           `json:"variantId"`
	Quantity        int             `json:"quantity"`
	ProductID       int64           `json:"productId,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	ProductImageURL string          `json:"productImageUrl,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Discount        int             `json:"discount"`
	Color           Label           `json:"color,omitempty"`
	Size            Label           `json:"size,omitempty"`
}

// MergeItem is the reduced line sent to /api/cart/merge and /api/checkout.
type MergeItem struct {
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type CheckoutRequest struct {
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
	Items   []MergeItem `json:"items"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type OrderItem struct {
	VariantID int64           `json:"variantId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID           int64         `json:"id"`
	CreatedAt    string        `json:"createdAt"`
	Status       int           `json:"status"`
	Address      string        `json:"address"`
	Phone        string        `json:"phone"`
	Items        []OrderItem   `json:"items"`
	CustomerInfo *CustomerInfo `json:"customerInfo,omitempty"`
}

type OrderPage struct {
	Content    []Order
	TotalPages int
}

// UnmarshalJSON accepts either a Spring page object or a bare array.
func (p *OrderPage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var orders []Order
		if err := json.Unmarshal(data, &orders); err != nil {
			return err
		}
		p.Content = orders
		p.TotalPages = 1
		return nil
	}
	var page struct {
		Content    []Order `json:"content"`
		TotalPages int     `json:"totalPages"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	p.Content = page.Content
	p.TotalPages = page.TotalPages
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	return nil
}

type VariantForm struct {
	ID    *int64 `json:"id,omitempty"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

// ProductForm is the JSON part of the admin add/edit multipart request.
type ProductForm struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	CategoryID  int64           `json:"categoryId"`
	Variants    []VariantForm   `json:"variants"`
	OldImg      string          `json:"oldImg,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SocialIdentity is what the storefront learnt from a verified Firebase token.
type SocialIdentity struct {
	Provider string `json:"provider"`
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
}

type LoginResult struct {
	User     User
	Redirect string
	Cookies  []Cookie
}

type NewCategory struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId"`
}
