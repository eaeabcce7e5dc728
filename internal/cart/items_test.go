package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sneaker_store_echo/internal/backend"
)

func ids(items []Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.VariantID)
	}
	return out
}

func quantities(items []Item) map[int64]int {
	out := make(map[int64]int, len(items))
	for _, it := range items {
		out[it.VariantID] = it.Quantity
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		dst     []Item
		src     []Item
		wantIDs []int64
		wantQty map[int64]int
	}{
		{
			name:    "disjoint carts append in order",
			dst:     []Item{{VariantID: 1, Quantity: 1}, {VariantID: 2, Quantity: 2}},
			src:     []Item{{VariantID: 5, Quantity: 1}, {VariantID: 3, Quantity: 4}},
			wantIDs: []int64{1, 2, 5, 3},
			wantQty: map[int64]int{1: 1, 2: 2, 5: 1, 3: 4},
		},
		{
			name:    "shared variants are summed in place",
			dst:     []Item{{VariantID: 1, Quantity: 1}, {VariantID: 2, Quantity: 2}},
			src:     []Item{{VariantID: 2, Quantity: 3}, {VariantID: 4, Quantity: 1}},
			wantIDs: []int64{1, 2, 4},
			wantQty: map[int64]int{1: 1, 2: 5, 4: 1},
		},
		{
			name:    "duplicates inside one side collapse",
			dst:     []Item{{VariantID: 7, Quantity: 1}, {VariantID: 7, Quantity: 1}},
			src:     []Item{{VariantID: 7, Quantity: 1}},
			wantIDs: []int64{7},
			wantQty: map[int64]int{7: 3},
		},
		{
			name:    "invalid lines are dropped",
			dst:     []Item{{VariantID: 0, Quantity: 2}, {VariantID: 1, Quantity: 0}},
			src:     []Item{{VariantID: 2, Quantity: -1}, {VariantID: 3, Quantity: 1}},
			wantIDs: []int64{3},
			wantQty: map[int64]int{3: 1},
		},
		{
			name:    "empty",
			wantIDs: []int64{},
			wantQty: map[int64]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.dst, tt.src)
			assert.Equal(t, tt.wantIDs, ids(got))
			assert.Equal(t, tt.wantQty, quantities(got))
		})
	}
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	dst := []Item{{VariantID: 1, Quantity: 1}}
	src := []Item{{VariantID: 1, Quantity: 2}}

	_ = Merge(dst, src)
	assert.Equal(t, 1, dst[0].Quantity)
	assert.Equal(t, 2, src[0].Quantity)
}

func TestMergeFillsMissingDetails(t *testing.T) {
	dst := []Item{{VariantID: 1, Quantity: 1}}
	src := []Item{{VariantID: 1, Quantity: 1, ProductName: "Air Force 1", Price: decimal.NewFromInt(2000000), Discount: 10, Color: "trắng", Size: "42"}}

	got := Merge(dst, src)
	want := []Item{{VariantID: 1, Quantity: 2, ProductName: "Air Force 1", Price: decimal.NewFromInt(2000000), Discount: 10, Color: "trắng", Size: "42"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestCartEdits(t *testing.T) {
	items := []Item{{VariantID: 1, Quantity: 1}, {VariantID: 2, Quantity: 2}, {VariantID: 3, Quantity: 3}}

	items = Add(items, Item{VariantID: 2, Quantity: 1})
	assert.Equal(t, map[int64]int{1: 1, 2: 3, 3: 3}, quantities(items))

	assert.Equal(t, items, SetQuantity(items, 1, 0), "quantities below one are ignored")
	assert.Equal(t, 5, quantities(SetQuantity(items, 1, 5))[1])

	assert.Equal(t, []int64{1, 3}, ids(Remove(items, 2)))
	assert.Equal(t, []int64{2}, ids(Without(items, []int64{1, 3})))
	assert.Equal(t, []int64{1, 3}, ids(Select(items, []int64{3, 1, 99})), "selection keeps cart order")
	assert.Equal(t, 7, Count(items))
}

func TestMergePayload(t *testing.T) {
	items := []Item{
		{VariantID: 4, Quantity: 1, ProductName: "x", Price: decimal.NewFromInt(10)},
		{VariantID: 2, Quantity: 2},
		{VariantID: 4, Quantity: 2},
	}
	assert.Equal(t, []backend.MergeItem{{VariantID: 4, Quantity: 3}, {VariantID: 2, Quantity: 2}}, MergePayload(items))
	assert.Empty(t, MergePayload(nil))
}

func TestLineRoundTrip(t *testing.T) {
	it := Item{VariantID: 9, Quantity: 2, ProductID: 3, ProductName: "Jordan", Price: decimal.NewFromInt(5), Discount: 5, Color: "đen", Size: "40"}
	if diff := cmp.Diff(it, FromLine(it.Line())); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
