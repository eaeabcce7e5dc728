package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/cartcookie"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/middleware"
	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/services"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

// Deps is everything the HTTP layer needs, built once in cmd/server.
type Deps struct {
	Backend    *backend.Client
	Catalog    *catalog.Service
	Cart       *cart.Service
	Orders     *orders.Service
	CartCookie *cartcookie.Codec
	Verifier   services.TokenVerifier
	Firebase   *pages.FirebaseWeb
	Logger     *zap.Logger

	AssetBase           string
	HeaderMaxCategories int
	SecureCookies       bool
}

// base carries what every page handler needs to build the shared layout.
type base struct {
	catalog    *catalog.Service
	cart       *cart.Service
	cartCookie *cartcookie.Codec
	logger     *zap.Logger
	assetBase  string
	headerMax  int
}

func newBase(d Deps) base {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		catalog:    d.Catalog,
		cart:       d.Cart,
		cartCookie: d.CartCookie,
		logger:     logger,
		assetBase:  d.AssetBase,
		headerMax:  d.HeaderMaxCategories,
	}
}

// Layout builds the shared page data: signed-in user, cart badge, pending
// flash and the header categories.
func (b base) Layout(c echo.Context, title, nav string, crumbs ...shared.Breadcrumb) shared.Layout {
	sess := session.FromContext(c)
	l := shared.Layout{
		Title:       title,
		ActiveNav:   nav,
		Breadcrumbs: crumbs,
		User:        sess.User,
		CartCount:   sess.CartCount,
		Flash:       sess.PopFlash(),
		RequestID:   middleware.GetRequestID(c),
		AssetBase:   b.assetBase,
		SearchQuery: c.QueryParam("search"),
		AdminArea:   strings.HasPrefix(c.Request().URL.Path, "/admin"),
		CSRFToken:   middleware.CSRFToken(c),
	}

	if b.catalog != nil && !l.AdminArea {
		tree, err := b.catalog.Tree(c.Request().Context())
		if err != nil {
			b.logger.Warn("header categories unavailable", zap.Error(err))
		} else {
			l.HeaderVisible, l.HeaderHidden = catalog.SplitHeader(tree, b.headerMax)
		}
	}
	return l
}

// ErrorLayout adapts Layout to the error handler.
func (b base) ErrorLayout(c echo.Context, title string) shared.Layout {
	return b.Layout(c, title, "")
}

// owner identifies the cart the visitor works on. With create set a guest
// gets a cart cookie if they do not have one yet.
func (b base) owner(c echo.Context, create bool) cart.Owner {
	sess := session.FromContext(c)
	if sess.LoggedIn() {
		return cart.Owner{LoggedIn: true}
	}
	if create {
		return cart.Owner{GuestCartID: b.cartCookie.Ensure(c)}
	}
	id, _ := b.cartCookie.CartID(c)
	return cart.Owner{GuestCartID: id}
}

// refreshCartCount recomputes the header badge after owner's cart changed.
// Callers pass the owner they worked on: a guest cart cookie created during
// this request is only on the response.
func (b base) refreshCartCount(c echo.Context, owner cart.Owner) {
	n, err := b.cart.Count(c.Request().Context(), owner)
	if err != nil {
		b.logger.Warn("count cart", zap.Error(err))
		return
	}
	session.FromContext(c).SetCartCount(n)
}

// render writes the component with status. The page is rendered into a
// buffer first so a template failure still reaches the error handler.
func render(c echo.Context, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func flash(c echo.Context, kind, message string) {
	session.FromContext(c).AddFlash(kind, message)
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

func formInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	if err != nil {
		return fallback
	}
	return v
}

func formInt64(c echo.Context, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(c.FormValue(name)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// safeRedirect only follows local paths. Backslashes are refused because
// browsers read "/\host" as "//host".
func safeRedirect(to, fallback string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.ContainsAny(to, "\\\r\n\t") {
		return fallback
	}
	u, err := url.Parse(to)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return fallback
	}
	return to
}

func int64s(values []string) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// backURL is the local page the form was posted from, or fallback.
func backURL(c echo.Context, fallback string) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return fallback
	}
	return safeRedirect(ref.RequestURI(), fallback)
}

// fail reports a failed form action: JSON clients get the error, pages get
// a flash and go back to where they came from.
func fail(c echo.Context, err error, back string) error {
	ae := apperr.Wrap(err)
	if middleware.WantsJSON(c) || ae.Kind == apperr.Internal {
		return ae
	}
	flash(c, session.FlashError, ae.PublicMsg)
	return redirect(c, back)
}
