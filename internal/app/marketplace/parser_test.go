package marketplace_test

import (
	"searchbot/internal/app/marketplace"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div data-testid="listing-card-1001">
	<p data-testid="listing-card-text-seller-name">alice</p>
	<p class="D_lf D_lg D_lk D_ln D_lq D_ls D_lo D_lA" title="IKEA desk lamp">IKEA desk l...</p>
	<p class="D_lf D_lg D_lk D_lm D_lq D_lt D_l_">S$15</p>
</div>
<div data-testid="listing-card-1002">
	<p class="item-title">Vintage lamp</p>
	<p class="item-price">S$1,200</p>
	<p>@bob</p>
</div>
<div data-testid="listing-card-1003">
	<p data-testid="listing-card-text-seller-name">carol</p>
	<p>Floor lamp</p>
	<p>S$45</p>
</div>
<div data-testid="listing-card-1004">
	<p>Only a name</p>
</div>
<div class="ad">S$1</div>
</body></html>`

func TestParseListings(t *testing.T) {
	result, err := marketplace.ParseListings(searchPage)
	require.NoError(t, err)

	assert.Equal(t, 4, result.CardsFound)
	assert.Equal(t, 1, result.IncompleteCards)

	want := []marketplace.Listing{
		{Name: "IKEA desk lamp", Price: "S$15", Seller: "alice"},
		{Name: "Vintage lamp", Price: "S$1,200", Seller: "@bob"},
		{Name: "Floor lamp", Price: "S$45", Seller: "carol"},
	}
	if diff := cmp.Diff(want, result.Listings); diff != "" {
		t.Errorf("listings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseListings_NoCards(t *testing.T) {
	result, err := marketplace.ParseListings(`<html><body><h1>Access denied</h1></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CardsFound)
	assert.Empty(t, result.Listings)
}
