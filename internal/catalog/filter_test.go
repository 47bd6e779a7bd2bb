package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/primecart/internal/domain"
)

func fixtures() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Silk Blouse", Price: 120, Category: "Women", Description: "Ivory silk", Rating: 4.2},
		{ID: "2", Name: "Chelsea Boot", Price: 180, Category: "Footwear", Description: "Suede", Rating: 4.8},
		{ID: "3", Name: "Café Tote", Price: 60, Category: "Accessories", Description: "Canvas bag", Rating: 4.8},
		{ID: "4", Name: "Linen Shirt", Price: 95, Category: "Men", Description: "Breathable", Rating: 3.9},
		{ID: "5", Name: "Wool Scarf", Price: 40, Category: "Accessories", Description: "Merino", Rating: 4.5},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter keeps catalog order", Filter{}, []string{"1", "2", "3", "4", "5"}},
		{"query matches name case-insensitively", Filter{Query: "SILK"}, []string{"1"}},
		{"query matches description", Filter{Query: "merino"}, []string{"5"}},
		{"query matches category", Filter{Query: "foot"}, []string{"2"}},
		{"query is trimmed", Filter{Query: "  boot "}, []string{"2"}},
		{"category", Filter{Category: "Accessories"}, []string{"3", "5"}},
		{"category All", Filter{Category: AllCategories}, []string{"1", "2", "3", "4", "5"}},
		{"price range inclusive", Filter{MinPrice: 60, MaxPrice: 120}, []string{"1", "3", "4"}},
		{"no upper bound", Filter{MinPrice: 100}, []string{"1", "2"}},
		{"price low to high", Filter{Sort: SortPriceLow}, []string{"5", "3", "4", "1", "2"}},
		{"price high to low", Filter{Sort: SortPriceHigh}, []string{"2", "1", "4", "3", "5"}},
		{"rating keeps ties in catalog order", Filter{Sort: SortRating}, []string{"2", "3", "5", "1", "4"}},
		{"combined", Filter{Category: "Accessories", Sort: SortPriceLow}, []string{"5", "3"}},
		{"no match", Filter{Query: "tuxedo"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixtures(), tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_NormalizesUnicode(t *testing.T) {
	// "Cafe" + combining acute accent (decomposed form).
	got := Apply(fixtures(), Filter{Query: "cafe\u0301"})
	assert.Equal(t, []string{"3"}, ids(got))

	got = Apply(fixtures(), Filter{Query: "CAFÉ"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := fixtures()
	in[0].Features = []string{"Silk"}

	out := Apply(in, Filter{Sort: SortPriceLow})
	require.Equal(t, "1", out[3].ID)
	out[3].Features[0] = "changed"

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(in))
	assert.Equal(t, "Silk", in[0].Features[0])
}

func TestParseSort(t *testing.T) {
	for _, s := range []string{"featured", "price-low", "price-high", "rating"} {
		got, err := ParseSort(s)
		require.NoError(t, err)
		assert.Equal(t, Sort(s), got)
	}

	got, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, got)

	_, err = ParseSort("cheapest")
	assert.Error(t, err)
}

func TestFeatured(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Featured(fixtures())))
	assert.Equal(t, []string{"1"}, ids(Featured(fixtures()[:1])))
	assert.Empty(t, Featured(nil))
}
