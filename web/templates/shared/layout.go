package shared

import (
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/session"
)

// Breadcrumb represents a navigation trail entry. The current page has no URL.
type Breadcrumb struct {
	Title string
	URL   string
}

// Layout is the data every page shares with the base template.
type Layout struct {
	Title       string
	ActiveNav   string
	Breadcrumbs []Breadcrumb

	User      *backend.User
	CartCount int
	Flash     *session.Flash
	RequestID string

	AssetBase     string
	HeaderVisible []backend.Category
	HeaderHidden  []backend.Category
	SearchQuery   string
	AdminArea     bool
	CSRFToken     string
}

func (l Layout) LoggedIn() bool {
	return l.User != nil
}

func (l Layout) IsAdmin() bool {
	return l.User.IsAdmin()
}

// Crumbs builds a trail starting at the home page.
func Crumbs(pairs ...Breadcrumb) []Breadcrumb {
	return append([]Breadcrumb{{Title: "Trang chủ", URL: "/"}}, pairs...)
}
