// Package pages renders the storefront and admin pages. Each page is an
// html/template file in views/ cloned on top of the base layout, exposed as a
// templ.Component so handlers render it the same way regardless of source.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/catalog"
	"sneaker_store_echo/internal/format"
	"sneaker_store_echo/internal/orders"
	"sneaker_store_echo/internal/validation"
)

//go:embed views/*.html views/partials/*.html
var views embed.FS

var funcs = template.FuncMap{
	"vnd":        format.VND,
	"currency":   format.Currency,
	"percent":    format.Percent,
	"date":       format.DateString,
	"image":      format.ImageURL,
	"cssColor":   catalog.CSSColor,
	"status":     orders.Label,
	"canCancel":  func(code int) bool { return orders.CanCancel(orders.Status(code)) },
	"orderTotal": orders.Total,
	"discounted": cart.DiscountedPrice,
	"savings":    cart.Savings,
	"mulQty": func(price decimal.Decimal, qty int) decimal.Decimal {
		return price.Mul(decimal.NewFromInt(int64(qty)))
	},
	"add":   func(a, b int) int { return a + b },
	"label": func(l backend.Label) string { return l.String() },
	"join":  strings.Join,
	"has": func(set map[string]bool, key string) bool {
		return set[key]
	},
	"card": func(assetBase string, p backend.Product) map[string]any {
		return map[string]any{"AssetBase": assetBase, "Product": p}
	},
	"lines": func(assetBase string, d *orders.Detail, total decimal.Decimal) map[string]any {
		return map[string]any{"AssetBase": assetBase, "Lines": d.Lines, "Total": total}
	},
	"variantErr": func(errs validation.FieldErrors, i int, field string) string {
		return errs[fmt.Sprintf("variants[%d].%s", i, field)]
	},
	"cartBadge": func(count int) (template.HTML, error) {
		return templ.ToGoHTML(context.Background(), CartBadge(count))
	},
}

// templates maps a page name to the base layout cloned with that page.
var templates = mustParse()

func mustParse() map[string]*template.Template {
	base := template.Must(template.New("layout").Funcs(funcs).ParseFS(views, "views/partials/*.html"))

	files, err := views.ReadDir("views")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ".html")
		t := template.Must(base.Clone())
		template.Must(t.ParseFS(views, path.Join("views", f.Name())))
		out[name] = t
	}
	return out
}

// page renders the "base" template of the named page with data.
func page(name string, data any) templ.Component {
	t, ok := templates[name]
	if !ok {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("page template %q not found", name)
		})
	}
	return templ.FromGoHTML(t.Lookup("base"), data)
}

// CartBadge is the header cart counter, also served on its own so the
// storefront can refresh it after an add.
func CartBadge(count int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if count <= 0 {
			_, err := io.WriteString(w, `<span id="cart-badge" class="badge bg-danger d-none">0</span>`)
			return err
		}
		_, err := fmt.Fprintf(w, `<span id="cart-badge" class="badge bg-danger">%d</span>`, count)
		return err
	})
}
