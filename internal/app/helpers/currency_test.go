package helpers_test

import (
	"searchbot/internal/app/helpers"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"S$50":              50,
		"S$1,200":           1200,
		"S$ 1,234.56":       1234.56,
		"75.5":              75.5,
		"Contact for price": 0,
		"":                  0,
		"FREE":              0,
	}

	for price, target := range cases {
		result := helpers.ParsePrice(price)
		if result != target {
			t.Errorf("Invalid result for %q, got: %.2f, instead of: %.2f.", price, result, target)
		}
	}
}

func TestCurrencyFormat(t *testing.T) {
	price := 220.5
	target := "S$220.50"

	result := helpers.CurrencyFormat(price)
	if result != target {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, target)
	}
}
