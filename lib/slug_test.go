package lib_test

import (
	"testing"
	"yelo_server/lib"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Electronics", "electronics"},
		{"spaces become dashes", "Home Decor", "home-decor"},
		{"apostrophes vanish", "Men's Wear", "mens-wear"},
		{"curly apostrophe vanishes", "Women’s Shoes", "womens-shoes"},
		{"symbol runs collapse", "Home & Garden", "home-garden"},
		{"digits survive", "Top 10 Picks", "top-10-picks"},
		{"surrounding whitespace trimmed", "  Fresh Produce  ", "fresh-produce"},
		{"leading symbols suppressed", "--Sale!--", "sale"},
		{"only apostrophes", "'''", ""},
		{"empty input", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lib.Slugify(tc.input))
		})
	}
}
