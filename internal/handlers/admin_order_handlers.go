package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const (
	adminOrdersPerPage = 10
	msgStatusUpdated   = "Cập nhật trạng thái đơn hàng thành công."
)

// AdminOrderHandler lets admins browse orders and move them through their
// statuses.
type AdminOrderHandler struct {
	base
	orders *orders.Service
}

func NewAdminOrderHandler(d Deps) *AdminOrderHandler {
	return &AdminOrderHandler{base: newBase(d), orders: d.Orders}
}

func (h *AdminOrderHandler) List(c echo.Context) error {
	page := queryPage(c)
	search := strings.TrimSpace(c.QueryParam("search"))
	tab := orders.NormalizeTab(c.QueryParam("tab"))

	res, err := h.orders.AdminList(c.Request().Context(), page-1, adminOrdersPerPage, search, tab)
	if err != nil {
		return err
	}

	props := pages.AdminOrdersProps{
		Layout:     h.Layout(c, "Quản lý đơn hàng", "admin_orders", adminCrumbs(shared.Breadcrumb{Title: "Đơn hàng"})...),
		Orders:     res.Orders,
		Tabs:       orders.Tabs(),
		CurrentTab: tab,
		Search:     search,
		Pagination: shared.Paginate("/admin/orders", c.QueryParams(), page, res.TotalPages, 5),
	}
	return render(c, http.StatusOK, pages.AdminOrders(props))
}

func (h *AdminOrderHandler) Detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.orders.AdminDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Đơn hàng #%d", id)
	props := pages.AdminOrderDetailProps{
		Layout: h.Layout(c, title, "admin_orders", adminCrumbs(
			shared.Breadcrumb{Title: "Đơn hàng", URL: "/admin/orders"},
			shared.Breadcrumb{Title: title},
		)...),
		Order:   detail,
		Total:   orders.Total(detail.Order),
		Actions: orders.NextActions(detail.State()),
	}
	return render(c, http.StatusOK, pages.AdminOrderDetail(props))
}

// UpdateStatus applies one of the actions offered on the detail page.
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/admin/orders/%d", id)
	to := orders.Status(formInt(c, "status", -1))

	if err := h.orders.UpdateStatus(c.Request().Context(), id, to); err != nil {
		return fail(c, err, back)
	}
	flash(c, session.FlashSuccess, msgStatusUpdated)
	return redirect(c, back)
}
