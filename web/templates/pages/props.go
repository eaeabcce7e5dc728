package pages

import (
	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/validation"
	"sneaker_store_echo/web/templates/shared"
)

type ErrorPageProps struct {
	shared.Layout
	ErrorTitle   string
	ErrorMessage string
	BackLink     string
	BackText     string
}

func ErrorPage(p ErrorPageProps) templ.Component { return page("error", p) }

type HomeProps struct {
	shared.Layout
	Products []backend.Product
}

func Home(p HomeProps) templ.Component { return page("home", p) }

type ProductsProps struct {
	shared.Layout
	Products      []backend.Product
	Categories    []catalog.FlatCategory
	Sizes         []string
	Search        string
	CategoryID    int64
	SelectedSizes map[string]bool
	Pagination    shared.Pagination
}

func Products(p ProductsProps) templ.Component { return page("products", p) }

type ProductDetailProps struct {
	shared.Layout
	Product       *backend.Product
	Colors        []string
	Sizes         []string
	SelectedColor string
	SelectedSize  string
	Variant       *backend.Variant
	Quantity      int
	FinalPrice    decimal.Decimal
	Savings       decimal.Decimal
}

func (p ProductDetailProps) OutOfStock() bool {
	return p.Variant != nil && p.Variant.Stock == 0
}

func ProductDetail(p ProductDetailProps) templ.Component { return page("product_detail", p) }

type CartProps struct {
	shared.Layout
	Items   []cart.Item
	Summary cart.Summary
}

func Cart(p CartProps) templ.Component { return page("cart", p) }

type CheckoutProps struct {
	shared.Layout
	Items   []cart.Item
	Summary cart.Summary
	Address string
	Phone   string
	Errors  validation.FieldErrors
}

func Checkout(p CheckoutProps) templ.Component { return page("checkout", p) }

type OrdersProps struct {
	shared.Layout
	Orders     []backend.Order
	Tabs       []orders.Tab
	CurrentTab string
}

func Orders(p OrdersProps) templ.Component { return page("orders", p) }

type OrderDetailProps struct {
	shared.Layout
	Order     *orders.Detail
	Total     decimal.Decimal
	CanCancel bool
}

func OrderDetail(p OrderDetailProps) templ.Component { return page("order_detail", p) }

type FirebaseWeb struct {
	APIKey     string
	AuthDomain string
	ProjectID  string
}

type LoginProps struct {
	shared.Layout
	Email    string
	Redirect string
	Errors   validation.FieldErrors
	Firebase *FirebaseWeb
}

func Login(p LoginProps) templ.Component { return page("login", p) }

type RegisterProps struct {
	shared.Layout
	Email    string
	Username string
	Errors   validation.FieldErrors
}

func Register(p RegisterProps) templ.Component { return page("register", p) }

type AdminTile struct {
	Title       string
	Description string
	URL         string
}

type AdminHomeProps struct {
	shared.Layout
	Tiles []AdminTile
}

func AdminHome(p AdminHomeProps) templ.Component { return page("admin_home", p) }

type DashboardProps struct {
	shared.Layout
	Stats orders.Stats
}

func Dashboard(p DashboardProps) templ.Component { return page("admin_dashboard", p) }

type AdminCategoriesProps struct {
	shared.Layout
	Categories []catalog.FlatCategory
	Name       string
	ParentID   int64
	Errors     validation.FieldErrors
}

func AdminCategories(p AdminCategoriesProps) templ.Component { return page("admin_categories", p) }

type AdminProductRow struct {
	Product      backend.Product
	CategoryPath string
	Stock        int
}

type AdminProductsProps struct {
	shared.Layout
	Rows       []AdminProductRow
	Search     string
	Pagination shared.Pagination
}

func AdminProducts(p AdminProductsProps) templ.Component { return page("admin_products", p) }

type AdminProductFormProps struct {
	shared.Layout
	IsEdit     bool
	Action     string
	Form       backend.ProductForm
	Locked     int
	Categories []catalog.FlatCategory
	ImageURL   string
	Sizes      []string
	Colors     []catalog.ColorGroup
	Errors     validation.FieldErrors
}

// LockedVariant reports whether the i-th variant row already exists on the
// backend and therefore cannot be removed.
func (p AdminProductFormProps) LockedVariant(i int) bool {
	return i < p.Locked
}

func AdminProductForm(p AdminProductFormProps) templ.Component {
	return page("admin_product_form", p)
}

type AdminOrdersProps struct {
	shared.Layout
	Orders     []backend.Order
	Tabs       []orders.Tab
	CurrentTab string
	Search     string
	Pagination shared.Pagination
}

func AdminOrders(p AdminOrdersProps) templ.Component { return page("admin_orders", p) }

type AdminOrderDetailProps struct {
	shared.Layout
	Order   *orders.Detail
	Total   decimal.Decimal
	Actions []orders.Action
}

func AdminOrderDetail(p AdminOrderDetailProps) templ.Component {
	return page("admin_order_detail", p)
}
