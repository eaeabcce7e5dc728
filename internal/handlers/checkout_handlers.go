package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/middleware"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/internal/validation"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const (
	msgOrderPlaced   = "Đơn hàng đã được gửi! 🚀"
	msgOrderFailed   = "Có lỗi xảy ra khi gửi đơn hàng."
	msgCheckoutEmpty = "Không có sản phẩm nào được chọn để thanh toán"
)

type checkoutForm struct {
	Address string `form:"address" validate:"required"`
	Phone   string `form:"phone" validate:"required,vnphone"`
}

// CheckoutHandler turns the checkout selection into an order.
type CheckoutHandler struct {
	base
	backend *backend.Client
}

func NewCheckoutHandler(d Deps) *CheckoutHandler {
	return &CheckoutHandler{base: newBase(d), backend: d.Backend}
}

func (h *CheckoutHandler) Page(c echo.Context) error {
	return h.renderPage(c, http.StatusOK, checkoutForm{}, nil)
}

func (h *CheckoutHandler) renderPage(c echo.Context, status int, form checkoutForm, errs validation.FieldErrors) error {
	items := session.FromContext(c).Checkout
	props := pages.CheckoutProps{
		Layout: h.Layout(c, "Thanh toán", "cart", shared.Crumbs(
			shared.Breadcrumb{Title: "Giỏ hàng", URL: "/cart"},
			shared.Breadcrumb{Title: "Thanh toán"},
		)...),
		Items:   items,
		Summary: cart.Summarize(items),
		Address: form.Address,
		Phone:   form.Phone,
		Errors:  errs,
	}
	return render(c, status, pages.Checkout(props))
}

// Submit places the order for the selected items, then removes them from
// the visitor's cart.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	sess := session.FromContext(c)
	if !sess.LoggedIn() {
		return redirect(c, middleware.LoginURL("/checkout"))
	}
	items := sess.Checkout
	if len(items) == 0 {
		flash(c, session.FlashWarning, msgCheckoutEmpty)
		return redirect(c, "/cart")
	}

	var form checkoutForm
	if err := c.Bind(&form); err != nil {
		return h.renderPage(c, http.StatusBadRequest, form, validation.FromError(err))
	}
	form.Address = strings.TrimSpace(form.Address)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := c.Validate(&form); err != nil {
		return h.renderPage(c, http.StatusBadRequest, form, validation.FromError(err))
	}

	ctx := c.Request().Context()
	err := h.backend.Checkout(ctx, backend.CheckoutRequest{
		Address: form.Address,
		Phone:   validation.NormalizePhone(form.Phone),
		Items:   cart.MergePayload(items),
	})
	if err != nil {
		ae := apperr.FromBackend(err, msgOrderFailed)
		if ae.Kind == apperr.Unauthorized {
			sess.SignOut()
			return redirect(c, middleware.LoginURL("/checkout"))
		}
		return h.renderPage(c, apperr.HTTPStatus(ae), form, validation.FieldErrors{"_": ae.PublicMsg})
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariantID)
	}
	owner := h.owner(c, false)
	if err := h.cart.RemoveVariants(ctx, owner, ids); err != nil {
		h.logger.Warn("remove ordered items from cart", zap.Error(err))
	}
	sess.ClearCheckout()
	h.refreshCartCount(c, owner)

	flash(c, session.FlashSuccess, msgOrderPlaced)
	return redirect(c, "/orders")
}

func (h *CheckoutHandler) Cancel(c echo.Context) error {
	session.FromContext(c).ClearCheckout()
	return redirect(c, "/cart")
}

// BuyNow skips the cart: the chosen variant alone becomes the checkout
// selection.
func (h *CheckoutHandler) BuyNow(c echo.Context) error {
	ctx := c.Request().Context()
	back := backURL(c, "/products")
	variantID := formInt64(c, "variantId")
	if variantID == 0 {
		flash(c, session.FlashWarning, msgPickVariant)
		return redirect(c, back)
	}
	quantity := formInt(c, "quantity", 1)

	variant, err := h.cart.CheckStock(ctx, variantID, quantity)
	if err != nil {
		return fail(c, err, back)
	}
	productID := formInt64(c, "productId")
	if productID == 0 {
		productID = variant.ProductID
	}
	product, err := h.backend.Product(ctx, productID)
	if err != nil {
		return fail(c, apperr.FromBackend(err, ""), back)
	}

	session.FromContext(c).SetCheckout([]cart.Item{{
		VariantID:       variant.ID,
		Quantity:        quantity,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductImageURL: product.ImageURL,
		Price:           product.Price,
		Discount:        product.Discount,
		Color:           variant.Color.String(),
		Size:            variant.Size.String(),
	}})
	return redirect(c, "/checkout")
}
