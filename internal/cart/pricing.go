package cart

import "github.com/shopspring/decimal"

var (
	ShippingFee           = decimal.NewFromInt(50000)
	FreeShippingThreshold = decimal.NewFromInt(490000)

	hundred = decimal.NewFromInt(100)
)

func clampDiscount(discount int) int {
	switch {
	case discount < 0:
		return 0
	case discount > 100:
		return 100
	}
	return discount
}

// DiscountedPrice is price * (1 - discount/100).
func DiscountedPrice(price decimal.Decimal, discount int) decimal.Decimal {
	d := clampDiscount(discount)
	return price.Mul(decimal.NewFromInt(int64(100 - d))).Div(hundred)
}

// Savings is the amount taken off price by discount.
func Savings(price decimal.Decimal, discount int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(clampDiscount(discount)))).Div(hundred)
}

func (it Item) UnitPrice() decimal.Decimal {
	return DiscountedPrice(it.Price, it.Discount)
}

func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Shipping is free from FreeShippingThreshold up.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

type Summary struct {
	Count        int
	Subtotal     decimal.Decimal
	ShippingFee  decimal.Decimal
	Total        decimal.Decimal
	FreeShipping bool
}

func Summarize(items []Item) Summary {
	subtotal := Subtotal(items)
	shipping := Shipping(subtotal)
	if len(items) == 0 {
		shipping = decimal.Zero
	}
	return Summary{
		Count:        Count(items),
		Subtotal:     subtotal,
		ShippingFee:  shipping,
		Total:        subtotal.Add(shipping),
		FreeShipping: shipping.IsZero(),
	}
}
