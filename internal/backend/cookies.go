package backend

import (
	"context"
	"net/http"
)

// Cookie is a backend session cookie kept in the visitor's session so later
// calls run as that visitor.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type cookiesKey struct{}

// WithCookies attaches the visitor's backend cookies to ctx, replacing any
// set earlier. An empty list means anonymous calls.
func WithCookies(ctx context.Context, cookies []Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]Cookie)
	return cookies
}

func fromHTTPCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" || c.MaxAge < 0 {
			continue
		}
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}
