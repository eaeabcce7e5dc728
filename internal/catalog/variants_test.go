package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneaker_store_echo/internal/backend"
)

func TestVariantSelection(t *testing.T) {
	variants := []backend.Variant{
		{ID: 1, Color: "đen", Size: "42", Stock: 3},
		{ID: 2, Color: "trắng", Size: "40", Stock: 0},
		{ID: 3, Color: "đen", Size: "41", Stock: 1},
		{ID: 4, Color: "đen", Size: "42", Stock: 9},
		{ID: 5, Color: "trắng", Size: "41", Stock: 2},
	}

	assert.Equal(t, []string{"đen", "trắng"}, Colors(variants))
	assert.Equal(t, []string{"42", "41"}, SizesFor(variants, "đen"))
	assert.Nil(t, SizesFor(variants, ""))

	v, ok := FindVariant(variants, "đen", "42")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.ID, "first matching variant wins")

	_, ok = FindVariant(variants, "trắng", "42")
	assert.False(t, ok)
	_, ok = FindVariant(variants, "đen", "")
	assert.False(t, ok)
}
