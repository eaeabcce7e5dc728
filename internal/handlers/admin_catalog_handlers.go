package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/format"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/internal/validation"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const (
	adminProductsPerPage = 10
	maxImageSize         = 10 << 20

	msgCategoryAdded     = "Thêm danh mục thành công."
	msgProductSaved      = "Lưu sản phẩm thành công."
	msgImageRequired     = "Vui lòng chọn ảnh sản phẩm"
	msgImageTooLarge     = "Ảnh sản phẩm tối đa 10MB"
	msgUnknownValidation = "Lỗi validation không xác định"
	msgInvalidNumber     = "Giá trị không hợp lệ"
	msgVariantRequired   = "Sản phẩm cần ít nhất một biến thể"
)

// AdminCatalogHandler manages categories and products.
type AdminCatalogHandler struct {
	base
	backend *backend.Client
}

func NewAdminCatalogHandler(d Deps) *AdminCatalogHandler {
	return &AdminCatalogHandler{base: newBase(d), backend: d.Backend}
}

func (h *AdminCatalogHandler) Categories(c echo.Context) error {
	return h.renderCategories(c, http.StatusOK, "", 0, nil)
}

func (h *AdminCatalogHandler) renderCategories(c echo.Context, status int, name string, parentID int64, errs validation.FieldErrors) error {
	tree, err := h.catalog.Tree(c.Request().Context())
	if err != nil {
		return apperr.FromBackend(err, "Không thể tải danh sách danh mục")
	}
	props := pages.AdminCategoriesProps{
		Layout:     h.Layout(c, "Quản lý danh mục", "admin_categories", adminCrumbs(shared.Breadcrumb{Title: "Danh mục"})...),
		Categories: catalog.Flatten(tree),
		Name:       name,
		ParentID:   parentID,
		Errors:     errs,
	}
	return render(c, status, pages.AdminCategories(props))
}

// AddCategory creates a category, at the root when no parent is chosen.
func (h *AdminCatalogHandler) AddCategory(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	parentID := formInt64(c, "parentId")
	var parent *int64
	if parentID > 0 {
		parent = &parentID
	}

	if err := h.catalog.AddCategory(c.Request().Context(), name, parent); err != nil {
		ae := apperr.FromBackend(err, "Không thể thêm danh mục")
		errs := validation.FieldErrors{}
		for field, msg := range ae.Fields {
			errs[field] = msg
		}
		if len(errs) == 0 {
			errs["_"] = ae.PublicMsg
		}
		return h.renderCategories(c, apperr.HTTPStatus(ae), name, parentID, errs)
	}

	flash(c, session.FlashSuccess, msgCategoryAdded)
	return redirect(c, "/admin/categories")
}

func (h *AdminCatalogHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	page := queryPage(c)
	search := strings.TrimSpace(c.QueryParam("search"))

	res, err := h.backend.AdminProducts(ctx, page-1, adminProductsPerPage, search)
	if err != nil {
		return apperr.FromBackend(err, "Không thể tải danh sách sản phẩm.")
	}
	tree, err := h.catalog.Tree(ctx)
	if err != nil {
		h.logger.Warn("category paths unavailable", zap.Error(err))
	}

	rows := make([]pages.AdminProductRow, 0, len(res.Content))
	for _, p := range res.Content {
		stock := 0
		for _, v := range p.Variants {
			stock += v.Stock
		}
		rows = append(rows, pages.AdminProductRow{
			Product:      p,
			CategoryPath: catalog.PathString(tree, p.CategoryID),
			Stock:        stock,
		})
	}

	props := pages.AdminProductsProps{
		Layout:     h.Layout(c, "Quản lý sản phẩm", "admin_products", adminCrumbs(shared.Breadcrumb{Title: "Sản phẩm"})...),
		Rows:       rows,
		Search:     search,
		Pagination: shared.Paginate("/admin/products", c.QueryParams(), page, res.TotalPages, 5),
	}
	return render(c, http.StatusOK, pages.AdminProducts(props))
}

// productFormState is what a product form page needs besides the layout.
type productFormState struct {
	isEdit   bool
	action   string
	form     backend.ProductForm
	locked   int
	imageURL string
	errs     validation.FieldErrors
}

func (h *AdminCatalogHandler) renderProductForm(c echo.Context, status int, st productFormState) error {
	tree, err := h.catalog.Tree(c.Request().Context())
	if err != nil {
		return apperr.FromBackend(err, "Không thể tải danh sách danh mục")
	}
	title := "Thêm sản phẩm"
	if st.isEdit {
		title = "Chỉnh sửa sản phẩm"
	}

	props := pages.AdminProductFormProps{
		Layout: h.Layout(c, title, "admin_products", adminCrumbs(
			shared.Breadcrumb{Title: "Sản phẩm", URL: "/admin/products"},
			shared.Breadcrumb{Title: title},
		)...),
		IsEdit:     st.isEdit,
		Action:     st.action,
		Form:       st.form,
		Locked:     st.locked,
		Categories: catalog.Flatten(tree),
		ImageURL:   st.imageURL,
		Sizes:      catalog.SizeOptions(),
		Colors:     catalog.DefaultPalette().Grouped(),
		Errors:     st.errs,
	}
	if !st.isEdit && props.Form.CategoryID == 0 {
		if leaf, ok := catalog.FirstLeaf(props.Categories); ok {
			props.Form.CategoryID = leaf
		}
	}
	if len(props.Form.Variants) == 0 {
		props.Form.Variants = []backend.VariantForm{{}}
	}
	return render(c, status, pages.AdminProductForm(props))
}

func (h *AdminCatalogHandler) AddProductPage(c echo.Context) error {
	return h.renderProductForm(c, http.StatusOK, productFormState{action: "/admin/products/add"})
}

// AddProduct forwards the form and the required image to the backend.
func (h *AdminCatalogHandler) AddProduct(c echo.Context) error {
	st := productFormState{action: "/admin/products/add"}
	form, errs := parseProductForm(c)
	st.form = form

	upload, fileErr := formUpload(c)
	if fileErr != "" {
		errs["file"] = fileErr
	} else if upload == nil {
		errs["file"] = msgImageRequired
	}
	if len(errs) > 0 {
		st.errs = errs
		return h.renderProductForm(c, http.StatusBadRequest, st)
	}

	if err := h.backend.AddProduct(c.Request().Context(), form, upload); err != nil {
		st.errs = backendFormErrors(err)
		return h.renderProductForm(c, apperr.HTTPStatus(apperr.FromBackend(err, "")), st)
	}

	h.logger.Info("product added", zap.String("name", form.Name))
	flash(c, session.FlashSuccess, msgProductSaved)
	return redirect(c, "/admin/products")
}

func (h *AdminCatalogHandler) EditProductPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	p, err := h.backend.AdminProduct(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return apperr.NotFoundErr("Không tìm thấy sản phẩm")
		}
		return apperr.FromBackend(err, "")
	}

	form := productToForm(p)
	if tree, err := h.catalog.Tree(ctx); err == nil {
		form.CategoryID = catalog.LastLeaf(tree, form.CategoryID)
	}
	return h.renderProductForm(c, http.StatusOK, productFormState{
		isEdit:   true,
		action:   fmt.Sprintf("/admin/products/%d/edit", id),
		form:     form,
		locked:   len(form.Variants),
		imageURL: format.ImageURL(h.assetBase, p.ImageURL),
	})
}

// EditProduct saves the product. Variants that already exist are always
// sent back, so they cannot be dropped from the form; without a new image
// the current one is kept.
func (h *AdminCatalogHandler) EditProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	current, err := h.backend.AdminProduct(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return apperr.NotFoundErr("Không tìm thấy sản phẩm")
		}
		return apperr.FromBackend(err, "")
	}

	form, errs := parseProductForm(c)
	form.ID = id
	form.OldImg = current.ImageURL
	form.Variants = keepExistingVariants(form.Variants, current.Variants)
	if tree, err := h.catalog.Tree(ctx); err == nil {
		form.CategoryID = catalog.LastLeaf(tree, form.CategoryID)
	}

	st := productFormState{
		isEdit:   true,
		action:   fmt.Sprintf("/admin/products/%d/edit", id),
		form:     form,
		locked:   countLocked(form.Variants),
		imageURL: format.ImageURL(h.assetBase, current.ImageURL),
	}

	upload, fileErr := formUpload(c)
	if fileErr != "" {
		errs["file"] = fileErr
	}
	if len(errs) > 0 {
		st.errs = errs
		return h.renderProductForm(c, http.StatusBadRequest, st)
	}

	if err := h.backend.EditProduct(ctx, form, upload); err != nil {
		st.errs = backendFormErrors(err)
		return h.renderProductForm(c, apperr.HTTPStatus(apperr.FromBackend(err, "")), st)
	}

	h.logger.Info("product updated", zap.Int64("product_id", id))
	flash(c, session.FlashSuccess, msgProductSaved)
	return redirect(c, "/admin/products")
}

// parseProductForm reads the product fields and the parallel variant
// columns. Rows of existing variants come first.
func parseProductForm(c echo.Context) (backend.ProductForm, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	form := backend.ProductForm{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		CategoryID:  formInt64(c, "categoryId"),
	}

	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			errs["price"] = msgInvalidNumber
		} else {
			form.Price = price
		}
	}
	if raw := strings.TrimSpace(c.FormValue("discount")); raw != "" {
		discount, err := strconv.Atoi(raw)
		if err != nil {
			errs["discount"] = msgInvalidNumber
		} else {
			form.Discount = discount
		}
	}

	values, _ := c.FormParams()
	ids := values["variantId"]
	sizes := values["variantSize"]
	colors := values["variantColor"]
	stocks := values["variantStock"]

	var existing, added []backend.VariantForm
	for i := range sizes {
		v := backend.VariantForm{Size: strings.TrimSpace(sizes[i])}
		if i < len(colors) {
			v.Color = strings.TrimSpace(colors[i])
		}
		if i < len(stocks) {
			v.Stock, _ = strconv.Atoi(strings.TrimSpace(stocks[i]))
		}
		if i < len(ids) {
			if id, err := strconv.ParseInt(strings.TrimSpace(ids[i]), 10, 64); err == nil && id > 0 {
				v.ID = &id
				existing = append(existing, v)
				continue
			}
		}
		added = append(added, v)
	}
	form.Variants = append(existing, added...)
	if len(form.Variants) == 0 {
		errs["_"] = msgVariantRequired
	}
	return form, errs
}

// keepExistingVariants puts every current variant back into the form.
// Submitted IDs that do not belong to the product lose their ID and are
// saved as new rows; a repeated ID keeps only its first row.
func keepExistingVariants(submitted []backend.VariantForm, current []backend.Variant) []backend.VariantForm {
	owned := make(map[int64]struct{}, len(current))
	for _, v := range current {
		owned[v.ID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(current))
	var existing, added []backend.VariantForm
	for _, v := range submitted {
		if v.ID != nil {
			id := *v.ID
			if _, ok := owned[id]; ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					existing = append(existing, v)
				}
				continue
			}
			v.ID = nil
		}
		added = append(added, v)
	}

	for _, v := range current {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		id := v.ID
		existing = append(existing, backend.VariantForm{ID: &id, Size: v.Size.String(), Color: v.Color.String(), Stock: v.Stock})
	}
	return append(existing, added...)
}

func countLocked(variants []backend.VariantForm) int {
	n := 0
	for _, v := range variants {
		if v.ID != nil {
			n++
		}
	}
	return n
}

func productToForm(p *backend.Product) backend.ProductForm {
	form := backend.ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		CategoryID:  p.CategoryID,
		OldImg:      p.ImageURL,
	}
	for _, v := range p.Variants {
		id := v.ID
		form.Variants = append(form.Variants, backend.VariantForm{ID: &id, Size: v.Size.String(), Color: v.Color.String(), Stock: v.Stock})
	}
	return form
}

// formUpload returns the uploaded image, nil when none was sent, or a
// message for the "file" field.
func formUpload(c echo.Context) (*backend.Upload, string) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || (err == nil && fh.Size == 0) {
		return nil, ""
	}
	if err != nil {
		return nil, msgImageRequired
	}
	if fh.Size > maxImageSize {
		return nil, msgImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, msgImageRequired
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, msgImageRequired
	}
	return &backend.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     bytes.NewReader(content),
	}, ""
}

// backendFormErrors maps a refused save onto the form: per-field messages
// when the backend sent them, one banner otherwise.
func backendFormErrors(err error) validation.FieldErrors {
	ae := apperr.FromBackend(err, "Lỗi không xác định")
	errs := validation.FieldErrors{}
	if len(ae.Fields) > 0 {
		for field, msg := range ae.Fields {
			errs[field] = msg
		}
		return errs
	}
	if ae.Kind == apperr.Invalid {
		errs["_"] = msgUnknownValidation
		return errs
	}
	errs["_"] = ae.PublicMsg
	return errs
}
