package marketplace

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const listingCardSelector = `div[data-testid^="listing-card-"]`

// Marketplace markup uses generated class names, so every field has fallbacks.
var (
	priceSelectors = []string{
		`p[class*="D_lf"][class*="D_lg"][class*="D_lk"][class*="D_lm"][class*="D_lq"][class*="D_lt"][class*="D_l_"]`,
		`p[class*="price"]`,
		`p:contains("S$")`,
	}
	nameSelectors = []string{
		`p[class*="D_lf"][class*="D_lg"][class*="D_lk"][class*="D_ln"][class*="D_lq"][class*="D_ls"][class*="D_lo"][class*="D_lA"]`,
		`p[class*="title"]`,
	}
	sellerSelectors = []string{
		`p[data-testid="listing-card-text-seller-name"]`,
		`p:contains("@")`,
	}
)

// ParseResult contains listings found on a rendered search page.
type ParseResult struct {
	Listings        []Listing
	CardsFound      int
	IncompleteCards int
}

// Parse listing cards from a rendered search page.
func ParseListings(document string) (ParseResult, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return ParseResult{}, fmt.Errorf("parse html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	cards := doc.Find(listingCardSelector)

	result := ParseResult{
		CardsFound: cards.Length(),
	}

	cards.Each(func(i int, card *goquery.Selection) {
		price := findFirst(card, priceSelectors)
		seller := findFirst(card, sellerSelectors)
		name := findFirst(card, nameSelectors)
		if name == nil {
			name = findNameWithoutPrice(card, seller)
		}

		if price == nil || name == nil || seller == nil {
			result.IncompleteCards++
			return
		}

		title, ok := name.Attr("title")
		if !ok || strings.TrimSpace(title) == "" {
			title = name.Text()
		}

		result.Listings = append(result.Listings, Listing{
			Name:   strings.TrimSpace(title),
			Price:  strings.TrimSpace(price.Text()),
			Seller: strings.TrimSpace(seller.Text()),
		})
	})

	return result, nil
}

// Find the first element matching one of selectors, in selectors order.
func findFirst(card *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := card.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}

	return nil
}

// Find the first paragraph that is neither a price nor the seller.
func findNameWithoutPrice(card *goquery.Selection, seller *goquery.Selection) *goquery.Selection {
	var name *goquery.Selection

	card.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if strings.Contains(p.Text(), "S$") {
			return true
		}

		if seller != nil && p.Get(0) == seller.Get(0) {
			return true
		}

		name = p

		return false
	})

	return name
}
