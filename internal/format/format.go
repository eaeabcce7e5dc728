// Package format holds the presentation helpers shared by the storefront and
// admin pages: Vietnamese currency, dates and image URLs.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	currencySymbol = "₫"
	dateLayout     = "02/01/2006 15:04"
)

var (
	printer  = message.NewPrinter(language.Vietnamese)
	location = loadLocation()
)

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// VND renders an amount the way the shop shows prices in listings:
// "1.000.000₫", with up to three fraction digits when present.
func VND(amount decimal.Decimal) string {
	return Number(amount) + currencySymbol
}

// VNDFloat is VND for plain float amounts coming straight from the backend.
func VNDFloat(amount float64) string {
	return VND(decimal.NewFromFloat(amount))
}

// Currency renders the Intl currency style used on product cards:
// rounded to whole dong, symbol separated by a no-break space.
func Currency(amount decimal.Decimal) string {
	return printer.Sprint(number.Decimal(amount.Round(0).IntPart())) + "\u00a0" + currencySymbol
}

// Number formats with vi-VN grouping ("." thousands, "," decimals).
func Number(amount decimal.Decimal) string {
	rounded := amount.Round(3)
	if rounded.IsInteger() {
		return printer.Sprint(number.Decimal(rounded.IntPart()))
	}
	f, _ := rounded.Float64()
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// Percent renders a discount badge such as "-20%".
func Percent(discount int) string {
	if discount <= 0 {
		return ""
	}
	return "-" + strconv.Itoa(discount) + "%"
}

// Date renders a timestamp in shop local time.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(location).Format(dateLayout)
}

// Day is the shop-local calendar day of t.
func Day(t time.Time) string {
	return t.In(location).Format(time.DateOnly)
}

// ParseTime accepts RFC3339 timestamps as well as the zone-less
// LocalDateTime strings the backend serialises.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", value, location)
}

// DateString parses and formats in one step; unparseable input is returned as is.
func DateString(value string) string {
	t, err := ParseTime(value)
	if err != nil {
		return value
	}
	return Date(t)
}

// ImageURL prefixes relative upload paths with the asset host.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}
