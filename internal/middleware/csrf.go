package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	CSRFField      = "_csrf"
	CSRFHeader     = "X-CSRF-Token"
	CSRFContextKey = "csrf"

	msgCSRFInvalid = "Phiên làm việc đã hết hạn, vui lòng tải lại trang."
)

// CSRF guards unsafe requests under path with a double-submit token. The
// token is read from the _csrf form field or the X-CSRF-Token header.
func CSRF(path string, secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:" + CSRFField + ",header:" + CSRFHeader,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFField,
		CookiePath:     path,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, msgCSRFInvalid).SetInternal(err)
		},
	})
}

// CSRFToken returns the token CSRF issued for this request, or "".
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
