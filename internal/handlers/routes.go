package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/middleware"
)

// Register wires every storefront and admin route. Session, logging and
// recovery middleware are installed by the caller.
func Register(e *echo.Echo, d Deps) {
	store := NewStoreHandler(d)
	cartHandler := NewCartHandler(d)
	checkout := NewCheckoutHandler(d)
	orderHandler := NewOrderHandler(d)
	auth := NewAuthHandler(d)
	dashboard := NewDashboardHandler(d)
	adminCatalog := NewAdminCatalogHandler(d)
	adminOrders := NewAdminOrderHandler(d)

	requireLogin := middleware.RequireLogin()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Storefront
	e.GET("/", store.Home)
	e.GET("/products", store.Products)
	e.GET("/products/:id", store.ProductDetail)

	e.GET("/cart", cartHandler.Cart)
	e.POST("/cart/add", cartHandler.Add)
	e.POST("/cart/update", cartHandler.Update)
	e.POST("/cart/remove", cartHandler.Remove)
	e.POST("/cart/select", cartHandler.Select)
	e.GET("/partials/cart-badge", cartHandler.Badge)

	e.GET("/checkout", checkout.Page)
	e.POST("/checkout", checkout.Submit)
	e.POST("/checkout/cancel", checkout.Cancel)
	e.POST("/checkout/buy-now", checkout.BuyNow)

	e.GET("/orders", orderHandler.List, requireLogin)
	e.GET("/orders/:id", orderHandler.Detail, requireLogin)
	e.POST("/orders/:id/cancel", orderHandler.Cancel, requireLogin)

	// Authentication
	e.GET("/login", auth.LoginPage)
	e.POST("/login", auth.Login)
	e.GET("/register", auth.RegisterPage)
	e.POST("/register", auth.Register)
	e.POST("/logout", auth.Logout)
	e.GET("/auth/check-email", auth.CheckEmail)
	e.GET("/auth/check-username", auth.CheckUsername)
	e.POST("/auth/social", auth.SocialLogin)

	// Admin console
	admin := e.Group("/admin", middleware.RequireAdmin(), middleware.CSRF("/admin", d.SecureCookies))
	admin.GET("", dashboard.Home)
	admin.GET("/dashboard", dashboard.Dashboard)

	admin.GET("/categories", adminCatalog.Categories)
	admin.POST("/categories", adminCatalog.AddCategory)
	admin.GET("/products", adminCatalog.Products)
	admin.GET("/products/add", adminCatalog.AddProductPage)
	admin.POST("/products/add", adminCatalog.AddProduct)
	admin.GET("/products/:id/edit", adminCatalog.EditProductPage)
	admin.POST("/products/:id/edit", adminCatalog.EditProduct)

	admin.GET("/orders", adminOrders.List)
	admin.GET("/orders/:id", adminOrders.Detail)
	admin.POST("/orders/:id/status", adminOrders.UpdateStatus)
}

// ErrorLayout gives the error handler the same header as every other page.
func ErrorLayout(d Deps) middleware.LayoutFunc {
	return newBase(d).ErrorLayout
}
