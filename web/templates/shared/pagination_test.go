package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	q := url.Values{"search": {"jordan"}, "sizes": {"40", "41"}}

	p := Paginate("/products", q, 1, 3, 5)
	require.Len(t, p.Links, 3)
	assert.True(t, p.Links[0].Active)
	assert.Empty(t, p.Prev)
	assert.Equal(t, "/products?page=2&search=jordan&sizes=40&sizes=41", p.Next)
	assert.Equal(t, []string{"jordan"}, q["search"], "base query is not modified")
	_, hasPage := q["page"]
	assert.False(t, hasPage)

	p = Paginate("/admin/orders", nil, 9, 10, 5)
	require.Len(t, p.Links, 5)
	assert.Equal(t, 6, p.Links[0].Number)
	assert.Equal(t, 10, p.Links[4].Number)
	assert.Equal(t, "/admin/orders?page=10", p.Next)

	p = Paginate("/x", nil, 42, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Next)
}
