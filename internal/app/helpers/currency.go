package helpers

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencySymbol string = "S$"

// Parse display price to major value (e.g. "S$1,200.50" to 1200.50).
// Unparseable prices (e.g. "Contact for price") are treated as 0.
func ParsePrice(price string) float64 {
	price = strings.ReplaceAll(price, CurrencySymbol, "")
	price = strings.ReplaceAll(price, ",", "")

	value, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return 0
	}

	return value.InexactFloat64()
}

// Format major currency as string (e.g. 50 to "S$50.00").
func CurrencyFormat(majorValue float64) string {
	return ConcatStrings(CurrencySymbol, strconv.FormatFloat(majorValue, 'f', 2, 64))
}
