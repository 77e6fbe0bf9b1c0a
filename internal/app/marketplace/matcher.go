package marketplace

// Filter listings priced at or below maxPrice, keeping the original order.
// A nil maxPrice disables filtering. Listings with unparseable prices count as 0
// and therefore always match a non-negative ceiling.
func MatchMaxPrice(listings []Listing, maxPrice *float64) []Listing {
	if maxPrice == nil {
		return listings
	}

	matches := make([]Listing, 0, len(listings))

	for _, listing := range listings {
		if listing.PriceValue() <= *maxPrice {
			matches = append(matches, listing)
		}
	}

	return matches
}
