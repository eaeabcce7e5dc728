package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

// DashboardHandler serves the admin landing page and the sales dashboard.
type DashboardHandler struct {
	base
	orders *orders.Service
}

func NewDashboardHandler(d Deps) *DashboardHandler {
	return &DashboardHandler{base: newBase(d), orders: d.Orders}
}

var adminTiles = []pages.AdminTile{
	{Title: "Dashboard", Description: "Doanh thu và số đơn hàng theo trạng thái", URL: "/admin/dashboard"},
	{Title: "Quản lý danh mục", Description: "Thêm danh mục và xem cây danh mục", URL: "/admin/categories"},
	{Title: "Quản lý sản phẩm", Description: "Thêm, sửa sản phẩm và biến thể", URL: "/admin/products"},
	{Title: "Quản lý đơn hàng", Description: "Xem và cập nhật trạng thái đơn hàng", URL: "/admin/orders"},
}

func (h *DashboardHandler) Home(c echo.Context) error {
	props := pages.AdminHomeProps{
		Layout: h.Layout(c, "Trang quản trị", "admin", adminCrumbs()...),
		Tiles:  adminTiles,
	}
	return render(c, http.StatusOK, pages.AdminHome(props))
}

// Dashboard renders the order statistics; charts are left out.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	stats, err := h.orders.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	props := pages.DashboardProps{
		Layout: h.Layout(c, "Dashboard Admin", "dashboard", adminCrumbs(shared.Breadcrumb{Title: "Dashboard"})...),
		Stats:  stats,
	}
	return render(c, http.StatusOK, pages.Dashboard(props))
}

// adminCrumbs builds a trail starting at the admin home.
func adminCrumbs(pairs ...shared.Breadcrumb) []shared.Breadcrumb {
	if len(pairs) == 0 {
		return []shared.Breadcrumb{{Title: "Quản trị"}}
	}
	return append([]shared.Breadcrumb{{Title: "Quản trị", URL: "/admin"}}, pairs...)
}
