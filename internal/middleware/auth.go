package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"sneaker_store_echo/internal/session"
)

const msgAdminOnly = "Bạn không có quyền truy cập trang quản trị."

// WantsJSON reports whether the client expects a JSON answer rather than a page.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return true
	}
	return req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest"
}

// LoginURL is the login page that sends the visitor back to path afterwards.
func LoginURL(path string) string {
	if path == "" || path == "/" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(path)
}

// RequireLogin lets signed-in visitors through. Guests are sent to the login
// page, JSON clients get 401.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session.FromContext(c).LoggedIn() {
				return next(c)
			}
			if WantsJSON(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Vui lòng đăng nhập để tiếp tục.")
			}
			return c.Redirect(http.StatusFound, LoginURL(c.Request().URL.RequestURI()))
		}
	}
}

// RequireAdmin only admits ROLE_ADMIN. Guests go to login, other users back
// to the storefront with a flash; JSON clients get 401/403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c)
			if sess.IsAdmin() {
				return next(c)
			}
			if !sess.LoggedIn() {
				if WantsJSON(c) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Vui lòng đăng nhập để tiếp tục.")
				}
				return c.Redirect(http.StatusFound, LoginURL(c.Request().URL.RequestURI()))
			}
			if WantsJSON(c) {
				return echo.NewHTTPError(http.StatusForbidden, msgAdminOnly)
			}
			sess.AddFlash(session.FlashError, msgAdminOnly)
			return c.Redirect(http.StatusFound, "/")
		}
	}
}
