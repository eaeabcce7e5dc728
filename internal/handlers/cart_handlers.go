package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/middleware"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const (
	msgAddedToCart = "Đã thêm vào giỏ hàng!"
	msgSelectItems = "Vui lòng chọn ít nhất một sản phẩm để thanh toán."
	msgPickVariant = "Vui lòng chọn màu sắc và kích thước."
	msgItemRemoved = "Đã xóa sản phẩm khỏi giỏ hàng."
)

// CartHandler serves the cart page and its form actions.
type CartHandler struct {
	base
}

func NewCartHandler(d Deps) *CartHandler {
	return &CartHandler{base: newBase(d)}
}

func (h *CartHandler) Cart(c echo.Context) error {
	items, err := h.cart.View(c.Request().Context(), h.owner(c, false))
	if err != nil {
		return err
	}
	session.FromContext(c).SetCartCount(cart.Count(items))

	props := pages.CartProps{
		Layout:  h.Layout(c, "Giỏ hàng", "cart", shared.Crumbs(shared.Breadcrumb{Title: "Giỏ hàng"})...),
		Items:   items,
		Summary: cart.Summarize(items),
	}
	return render(c, http.StatusOK, pages.Cart(props))
}

type cartCountResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Add puts the chosen variant into the cart after checking its stock.
func (h *CartHandler) Add(c echo.Context) error {
	productID := formInt64(c, "productId")
	back := backURL(c, "/products")
	variantID := formInt64(c, "variantId")
	if variantID == 0 {
		flash(c, session.FlashWarning, msgPickVariant)
		return redirect(c, back)
	}

	item := cart.Item{VariantID: variantID, ProductID: productID, Quantity: formInt(c, "quantity", 1)}
	items, err := h.cart.Add(c.Request().Context(), h.owner(c, true), item)
	if err != nil {
		return fail(c, err, back)
	}
	session.FromContext(c).SetCartCount(cart.Count(items))

	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, cartCountResponse{Message: msgAddedToCart, Count: session.FromContext(c).CartCount})
	}
	flash(c, session.FlashSuccess, msgAddedToCart)
	return redirect(c, back)
}

// Update sets a line's quantity; the cart page posts variantId and quantity
// in the query string.
func (h *CartHandler) Update(c echo.Context) error {
	variantID := formInt64(c, "variantId")
	quantity := formInt(c, "quantity", 0)
	owner := h.owner(c, false)
	if err := h.cart.Update(c.Request().Context(), owner, variantID, quantity); err != nil {
		return fail(c, err, "/cart")
	}
	h.refreshCartCount(c, owner)
	return redirect(c, "/cart")
}

func (h *CartHandler) Remove(c echo.Context) error {
	variantID := formInt64(c, "variantId")
	owner := h.owner(c, false)
	if err := h.cart.Remove(c.Request().Context(), owner, variantID); err != nil {
		return fail(c, err, "/cart")
	}
	h.refreshCartCount(c, owner)
	flash(c, session.FlashSuccess, msgItemRemoved)
	return redirect(c, "/cart")
}

// Select stores the ticked lines as the checkout selection.
func (h *CartHandler) Select(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return fail(c, err, "/cart")
	}
	ids := int64s(form["variantIds"])
	if len(ids) == 0 {
		flash(c, session.FlashWarning, msgSelectItems)
		return redirect(c, "/cart")
	}

	items, err := h.cart.View(c.Request().Context(), h.owner(c, false))
	if err != nil {
		return fail(c, err, "/cart")
	}
	selected := cart.Select(items, ids)
	if len(selected) == 0 {
		flash(c, session.FlashWarning, msgSelectItems)
		return redirect(c, "/cart")
	}
	session.FromContext(c).SetCheckout(selected)
	return redirect(c, "/checkout")
}

// Badge renders the header cart counter on its own.
func (h *CartHandler) Badge(c echo.Context) error {
	h.refreshCartCount(c, h.owner(c, false))
	return render(c, http.StatusOK, pages.CartBadge(session.FromContext(c).CartCount))
}
