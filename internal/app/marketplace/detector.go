package marketplace

import (
	"net/url"
	"searchbot/internal/app/helpers"
	"strings"
)

const sellerProfileHost = "carousell.sg"

// Get marketplace search page URL for the search term.
func GetSearchUrl(baseUrl string, searchTerm string) string {
	return helpers.ConcatStrings(
		strings.TrimRight(baseUrl, "/"),
		"/search/",
		url.PathEscape(strings.TrimSpace(searchTerm)),
	)
}

// Get seller profile link (without scheme, the way it is shown to users).
func GetSellerUrl(seller string) string {
	seller = strings.TrimPrefix(strings.TrimSpace(seller), "@")

	return helpers.ConcatStrings(sellerProfileHost, "/u/", url.PathEscape(seller), "/")
}
