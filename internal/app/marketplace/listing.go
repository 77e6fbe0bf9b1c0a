package marketplace

import "searchbot/internal/app/helpers"

// Listing is a single marketplace search result.
type Listing struct {
	Name   string
	Price  string
	Seller string
}

// Get numeric price value. Unparseable prices are treated as 0.
func (l Listing) PriceValue() float64 {
	return helpers.ParsePrice(l.Price)
}

// SearchResult is a fetched list of listings with an optional exported file.
type SearchResult struct {
	SearchTerm string
	Listings   []Listing
	ExportPath string
}

func (r SearchResult) IsEmpty() bool {
	return len(r.Listings) == 0
}
