package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const productsPerPage = 12

// StoreHandler serves the catalogue pages.
type StoreHandler struct {
	base
	backend *backend.Client
}

func NewStoreHandler(d Deps) *StoreHandler {
	return &StoreHandler{base: newBase(d), backend: d.Backend}
}

func (h *StoreHandler) Home(c echo.Context) error {
	products, err := h.catalog.HomeProducts(c.Request().Context())
	if err != nil {
		// the banners still render without the product strip
		h.logger.Warn("home products unavailable", zap.Error(err))
	}

	props := pages.HomeProps{
		Layout:   h.Layout(c, "Trang chủ", "home"),
		Products: products,
	}
	return render(c, http.StatusOK, pages.Home(props))
}

// Products lists the catalogue with search, category and size filters.
// Pages are 1-based in the URL and 0-based on the backend.
func (h *StoreHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	page := queryPage(c)
	search := strings.TrimSpace(c.QueryParam("search"))
	categoryID, _ := strconv.ParseInt(c.QueryParam("categoryId"), 10, 64)
	sizes := c.QueryParams()["sizes"]

	res, err := h.backend.Products(ctx, backend.ProductQuery{
		Page:       page - 1,
		Size:       productsPerPage,
		Search:     search,
		CategoryID: categoryID,
		Sizes:      sizes,
	})
	if err != nil {
		return apperr.FromBackend(err, "Không thể tải danh sách sản phẩm.")
	}

	var flat []catalog.FlatCategory
	if tree, err := h.catalog.Tree(ctx); err != nil {
		h.logger.Warn("category sidebar unavailable", zap.Error(err))
	} else {
		flat = catalog.Flatten(tree)
	}

	selected := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		selected[s] = true
	}

	props := pages.ProductsProps{
		Layout:        h.Layout(c, "Sản phẩm", "products", shared.Crumbs(shared.Breadcrumb{Title: "Sản phẩm"})...),
		Products:      res.Content,
		Categories:    flat,
		Sizes:         catalog.SizeOptions(),
		Search:        search,
		CategoryID:    categoryID,
		SelectedSizes: selected,
		Pagination:    shared.Paginate("/products", c.QueryParams(), page, res.TotalPages, 5),
	}
	return render(c, http.StatusOK, pages.Products(props))
}

// ProductDetail shows one product. The colour and size picked by the
// visitor travel in the query string.
func (h *StoreHandler) ProductDetail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.backend.Product(c.Request().Context(), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return apperr.NotFoundErr("Không tìm thấy sản phẩm")
		}
		return apperr.FromBackend(err, "")
	}

	color := c.QueryParam("color")
	size := c.QueryParam("size")
	props := pages.ProductDetailProps{
		Layout: h.Layout(c, product.Name, "products", shared.Crumbs(
			shared.Breadcrumb{Title: "Sản phẩm", URL: "/products"},
			shared.Breadcrumb{Title: product.Name},
		)...),
		Product:       product,
		Colors:        catalog.Colors(product.Variants),
		Sizes:         catalog.SizesFor(product.Variants, color),
		SelectedColor: color,
		SelectedSize:  size,
		Quantity:      1,
		FinalPrice:    cart.DiscountedPrice(product.Price, product.Discount),
		Savings:       cart.Savings(product.Price, product.Discount),
	}
	if color != "" && size != "" {
		if v, ok := catalog.FindVariant(product.Variants, color, size); ok {
			props.Variant = v
		}
	}
	return render(c, http.StatusOK, pages.ProductDetail(props))
}
