// Package cart implements the visitor's cart: the guest cart kept on our
// side, the server cart of signed-in visitors and the merge between the two
// on login.
package cart

import (
	"github.com/shopspring/decimal"

	"sneaker_store_echo/internal/backend"
)

// Item is one cart line. VariantID identifies it; a cart never holds two
// items with the same VariantID.
type Item struct {
	VariantID       int64           `json:"variantId"`
	Quantity        int             `json:"quantity"`
	ProductID       int64           `json:"productId,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	ProductImageURL string          `json:"productImageUrl,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Discount        int             `json:"discount"`
	Color           string          `json:"color,omitempty"`
	Size            string          `json:"size,omitempty"`
}

func (it Item) valid() bool {
	return it.VariantID > 0 && it.Quantity > 0
}

// Enriched reports whether the product details are present.
func (it Item) Enriched() bool {
	return it.ProductName != ""
}

func FromLine(l backend.CartLine) Item {
	return Item{
		VariantID:       l.VariantID,
		Quantity:        l.Quantity,
		ProductID:       l.ProductID,
		ProductName:     l.ProductName,
		ProductImageURL: l.ProductImageURL,
		Price:           l.Price,
		Discount:        l.Discount,
		Color:           l.Color.String(),
		Size:            l.Size.String(),
	}
}

func FromLines(lines []backend.CartLine) []Item {
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, FromLine(l))
	}
	return items
}

func (it Item) Line() backend.CartLine {
	return backend.CartLine{
		VariantID:       it.VariantID,
		Quantity:        it.Quantity,
		ProductID:       it.ProductID,
		ProductName:     it.ProductName,
		ProductImageURL: it.ProductImageURL,
		Price:           it.Price,
		Discount:        it.Discount,
		Color:           backend.Label(it.Color),
		Size:            backend.Label(it.Size),
	}
}

// Merge folds src into dst. Quantities of the same variant are summed, dst
// order is kept and variants only in src are appended in src order. Lines
// without a variant or with a non-positive quantity are dropped. Neither
// input is modified.
func Merge(dst, src []Item) []Item {
	out := make([]Item, 0, len(dst)+len(src))
	index := make(map[int64]int, len(dst)+len(src))

	fold := func(items []Item) {
		for _, it := range items {
			if !it.valid() {
				continue
			}
			i, ok := index[it.VariantID]
			if !ok {
				index[it.VariantID] = len(out)
				out = append(out, it)
				continue
			}
			out[i].Quantity += it.Quantity
			out[i] = fillDetails(out[i], it)
		}
	}
	fold(dst)
	fold(src)
	return out
}

// fillDetails copies product details from other into it where it has none.
func fillDetails(it, other Item) Item {
	if !it.Enriched() && other.Enriched() {
		it.ProductID = other.ProductID
		it.ProductName = other.ProductName
		it.ProductImageURL = other.ProductImageURL
		it.Price = other.Price
		it.Discount = other.Discount
	}
	if it.Color == "" {
		it.Color = other.Color
	}
	if it.Size == "" {
		it.Size = other.Size
	}
	return it
}

// Add puts item into the cart, summing with an existing line of the same variant.
func Add(items []Item, item Item) []Item {
	return Merge(items, []Item{item})
}

// SetQuantity changes one line. Quantities below 1 are ignored.
func SetQuantity(items []Item, variantID int64, quantity int) []Item {
	out := append([]Item(nil), items...)
	if quantity < 1 {
		return out
	}
	for i := range out {
		if out[i].VariantID == variantID {
			out[i].Quantity = quantity
		}
	}
	return out
}

func Remove(items []Item, variantID int64) []Item {
	return Without(items, []int64{variantID})
}

// Without drops every line whose variant is listed.
func Without(items []Item, variantIDs []int64) []Item {
	drop := idSet(variantIDs)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := drop[it.VariantID]; !ok {
			out = append(out, it)
		}
	}
	return out
}

// Select keeps the listed lines, in cart order.
func Select(items []Item, variantIDs []int64) []Item {
	keep := idSet(variantIDs)
	out := make([]Item, 0, len(variantIDs))
	for _, it := range items {
		if _, ok := keep[it.VariantID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Count is the number of pairs in the cart.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}

// MergePayload reduces the cart to what /api/cart/merge and /api/checkout accept.
func MergePayload(items []Item) []backend.MergeItem {
	collapsed := Merge(nil, items)
	out := make([]backend.MergeItem, 0, len(collapsed))
	for _, it := range collapsed {
		out = append(out, backend.MergeItem{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
