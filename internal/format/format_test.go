package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVND(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{name: "zero", amount: decimal.Zero, expected: "0₫"},
		{name: "hundreds", amount: decimal.NewFromInt(500), expected: "500₫"},
		{name: "million", amount: decimal.NewFromInt(1000000), expected: "1.000.000₫"},
		{name: "fraction", amount: decimal.RequireFromString("1234.5"), expected: "1.234,5₫"},
		{name: "fraction rounded to three digits", amount: decimal.RequireFromString("0.12345"), expected: "0,123₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VND(tt.amount))
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "1.250.000\u00a0₫", Currency(decimal.NewFromFloat(1249999.6)))
	assert.Equal(t, "0\u00a0₫", Currency(decimal.Zero))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "-20%", Percent(20))
	assert.Equal(t, "", Percent(0))
}

func TestDate(t *testing.T) {
	ts := time.Date(2025, 3, 9, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "09/03/2025 09:30", Date(ts))
	assert.Equal(t, "", Date(time.Time{}))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2025-03-09T09:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "09/03/2025 09:30", Date(got))

	got, err = ParseTime("2025-03-09T09:30:12.123456")
	require.NoError(t, err)
	assert.Equal(t, "09/03/2025 09:30", Date(got))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
	assert.Equal(t, "yesterday", DateString("yesterday"))
}

func TestImageURL(t *testing.T) {
	base := "http://localhost:8080/"
	assert.Equal(t, "http://localhost:8080/uploads/images/a.jpg", ImageURL(base, "/uploads/images/a.jpg"))
	assert.Equal(t, "http://localhost:8080/uploads/a.jpg", ImageURL(base, "uploads/a.jpg"))
	assert.Equal(t, "https://theme.hstatic.net/x.jpg", ImageURL(base, "https://theme.hstatic.net/x.jpg"))
	assert.Equal(t, "", ImageURL(base, ""))
}

func TestDay(t *testing.T) {
	// 18:30 UTC is already the next day in Ho Chi Minh City
	assert.Equal(t, "2025-03-10", Day(time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)))
}
