package shared

import (
	"net/url"
	"strconv"
)

type PageLink struct {
	Number int
	URL    string
	Active bool
}

// Pagination holds 1-based page links; Prev and Next are empty at the ends.
type Pagination struct {
	Page       int
	TotalPages int
	Links      []PageLink
	Prev       string
	Next       string
}

// Paginate builds links for page out of total, keeping the other query
// parameters of query. At most window links are shown around the current page.
func Paginate(path string, query url.Values, page, total, window int) Pagination {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	if window < 1 {
		window = 5
	}

	link := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(n))
		return path + "?" + q.Encode()
	}

	start := page - window/2
	if start < 1 {
		start = 1
	}
	end := start + window - 1
	if end > total {
		end = total
		start = end - window + 1
		if start < 1 {
			start = 1
		}
	}

	p := Pagination{Page: page, TotalPages: total}
	for n := start; n <= end; n++ {
		p.Links = append(p.Links, PageLink{Number: n, URL: link(n), Active: n == page})
	}
	if page > 1 {
		p.Prev = link(page - 1)
	}
	if page < total {
		p.Next = link(page + 1)
	}
	return p
}
