package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"gaming laptop", Electronics},
		{"wool jacket", Clothing},
		{"xyz-nonsense", Default},
		{"Office Chair", Furniture},
		{"board game", Toys},
		{"coffee cup", Kitchenware},
		{"wireless mouse", Tools},
		// electronics is tested before tools
		{"camera keyboard", Electronics},
		{"", Default},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
			assert.Equal(t, Categorize(tt.name), Categorize(tt.name))
		})
	}
}

func TestLookupPrice(t *testing.T) {
	r, ok := LookupPrice("laptop")
	assert.True(t, ok)
	assert.Equal(t, PriceRange{Min: 800, Max: 2000}, r)

	_, ok = LookupPrice("gaming laptop")
	assert.False(t, ok)
}

func TestProfileFor(t *testing.T) {
	p := ProfileFor(Tools)
	assert.Equal(t, Tools, p.Category)
	assert.Equal(t, CostRange{MinPercent: 35, MaxPercent: 65}, p.Cost)
	assert.Equal(t, 50.0, p.Cost.Mid())
	assert.Contains(t, p.Locations, "Germany")

	unknown := ProfileFor(Category("spaceships"))
	assert.Equal(t, Default, unknown.Category)
	assert.Equal(t, CostRange{MinPercent: 25, MaxPercent: 50}, unknown.Cost)

	// mutating the copy leaves the table intact
	p.Locations[0] = "Atlantis"
	assert.Equal(t, "China", ProfileFor(Tools).Locations[0])
}

func TestEveryCategoryHasProfile(t *testing.T) {
	for _, c := range Categories() {
		p := ProfileFor(c)
		assert.Equal(t, c, p.Category)
		assert.NotEmpty(t, p.Locations)
		assert.Less(t, p.Cost.MinPercent, p.Cost.MaxPercent)
	}
}
