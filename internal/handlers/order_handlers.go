package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const msgOrderCancelled = "Đơn hàng đã được hủy."

// OrderHandler serves the signed-in customer's order history.
type OrderHandler struct {
	base
	orders *orders.Service
}

func NewOrderHandler(d Deps) *OrderHandler {
	return &OrderHandler{base: newBase(d), orders: d.Orders}
}

func (h *OrderHandler) List(c echo.Context) error {
	tab := orders.NormalizeTab(c.QueryParam("tab"))
	list, err := h.orders.List(c.Request().Context(), tab)
	if err != nil {
		return err
	}

	props := pages.OrdersProps{
		Layout:     h.Layout(c, "Đơn hàng của tôi", "orders", shared.Crumbs(shared.Breadcrumb{Title: "Đơn hàng của tôi"})...),
		Orders:     list,
		Tabs:       orders.Tabs(),
		CurrentTab: tab,
	}
	return render(c, http.StatusOK, pages.Orders(props))
}

func (h *OrderHandler) Detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.orders.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Đơn hàng #%d", id)
	props := pages.OrderDetailProps{
		Layout: h.Layout(c, title, "orders", shared.Crumbs(
			shared.Breadcrumb{Title: "Đơn hàng của tôi", URL: "/orders"},
			shared.Breadcrumb{Title: title},
		)...),
		Order:     detail,
		Total:     orders.Total(detail.Order),
		CanCancel: orders.CanCancel(detail.State()),
	}
	return render(c, http.StatusOK, pages.OrderDetail(props))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	back := backURL(c, "/orders")
	if err := h.orders.Cancel(c.Request().Context(), id); err != nil {
		return fail(c, err, back)
	}
	flash(c, session.FlashSuccess, msgOrderCancelled)
	return redirect(c, back)
}
