package marketplace_test

import (
	"searchbot/internal/app/marketplace"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr(value float64) *float64 {
	return &value
}

func TestMatchMaxPrice_NoCeiling(t *testing.T) {
	listings := []marketplace.Listing{
		{Name: "b", Price: "S$900"},
		{Name: "a", Price: "S$10"},
		{Name: "c", Price: "Contact for price"},
	}

	result := marketplace.MatchMaxPrice(listings, nil)
	if diff := cmp.Diff(listings, result); diff != "" {
		t.Errorf("listings changed (-want +got):\n%s", diff)
	}
}

func TestMatchMaxPrice_Ceiling(t *testing.T) {
	listings := []marketplace.Listing{
		{Name: "cheap", Price: "S$49.99"},
		{Name: "exact", Price: "S$50.00"},
		{Name: "expensive", Price: "S$1,200"},
		{Name: "contact", Price: "Contact for price"},
		{Name: "over", Price: "S$50.01"},
	}

	result := marketplace.MatchMaxPrice(listings, ptr(50))

	want := []marketplace.Listing{
		{Name: "cheap", Price: "S$49.99"},
		{Name: "exact", Price: "S$50.00"},
		{Name: "contact", Price: "Contact for price"},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchMaxPrice_BikeAlert(t *testing.T) {
	listings := []marketplace.Listing{
		{Name: "Road bike", Price: "S$150", Seller: "alice"},
		{Name: "Carbon bike", Price: "S$250", Seller: "bob"},
		{Name: "BMX", Price: "S$180", Seller: "carol"},
	}

	result := marketplace.MatchMaxPrice(listings, ptr(200))

	assert.Equal(t, []marketplace.Listing{listings[0], listings[2]}, result)
}

func TestListingPriceValue(t *testing.T) {
	assert.Equal(t, 1200.0, marketplace.Listing{Price: "S$1,200"}.PriceValue())
	assert.Equal(t, 0.0, marketplace.Listing{Price: "Contact for price"}.PriceValue())
}
