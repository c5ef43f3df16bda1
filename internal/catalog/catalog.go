// Package catalog is the static knowledge base used by the local estimator:
// known retail price ranges, manufacturing-cost shares and plausible import
// locations per product category.
package catalog

import "strings"

type Category string

const (
	Electronics Category = "electronics"
	Clothing    Category = "clothing"
	Furniture   Category = "furniture"
	Toys        Category = "toys"
	Kitchenware Category = "kitchenware"
	Tools       Category = "tools"
	Default     Category = "default"
)

// PriceRange is a retail price range in whole dollars.
type PriceRange struct {
	Min float64
	Max float64
}

// CostRange is the manufacturing cost as a percentage of the retail price.
type CostRange struct {
	MinPercent float64
	MaxPercent float64
}

// Mid returns the middle of the range.
func (c CostRange) Mid() float64 {
	return c.MinPercent + (c.MaxPercent-c.MinPercent)/2
}

// Profile is everything the estimator needs to know about a category.
type Profile struct {
	Category  Category
	Cost      CostRange
	Locations []string
}

var prices = map[string]PriceRange{
	"laptop":     {Min: 800, Max: 2000},
	"smartphone": {Min: 400, Max: 1200},
	"headphones": {Min: 50, Max: 350},
	"watch":      {Min: 100, Max: 500},
	"television": {Min: 300, Max: 2500},
	"camera":     {Min: 200, Max: 1500},
	"keyboard":   {Min: 20, Max: 200},
	"mouse":      {Min: 10, Max: 150},
	"monitor":    {Min: 150, Max: 800},
	"tablet":     {Min: 200, Max: 1000},
	"book":       {Min: 10, Max: 50},
	"chair":      {Min: 50, Max: 300},
	"table":      {Min: 100, Max: 1000},
	"lamp":       {Min: 20, Max: 200},
	"backpack":   {Min: 30, Max: 150},
	"shoes":      {Min: 40, Max: 200},
	"jacket":     {Min: 50, Max: 300},
	"bottle":     {Min: 5, Max: 50},
	"sunglasses": {Min: 15, Max: 300},
	"handbag":    {Min: 30, Max: 500},
}

var costs = map[Category]CostRange{
	Electronics: {MinPercent: 30, MaxPercent: 60},
	Clothing:    {MinPercent: 15, MaxPercent: 40},
	Furniture:   {MinPercent: 25, MaxPercent: 50},
	Toys:        {MinPercent: 20, MaxPercent: 45},
	Kitchenware: {MinPercent: 25, MaxPercent: 50},
	Tools:       {MinPercent: 35, MaxPercent: 65},
	Default:     {MinPercent: 25, MaxPercent: 50},
}

var locations = map[Category][]string{
	Electronics: {"China", "Taiwan", "South Korea", "Japan", "Vietnam"},
	Clothing:    {"Bangladesh", "Vietnam", "China", "India", "Indonesia"},
	Furniture:   {"China", "Vietnam", "Mexico", "Malaysia", "Poland"},
	Toys:        {"China", "Vietnam", "Mexico", "Indonesia", "Thailand"},
	Kitchenware: {"China", "India", "Thailand", "Turkey", "Italy"},
	Tools:       {"China", "Taiwan", "Germany", "USA", "Mexico"},
	Default:     {"China", "Vietnam", "India", "Mexico", "USA"},
}

// keywords are tested in slice order; the first category with a match wins.
var keywords = []struct {
	category Category
	words    []string
}{
	{Electronics, []string{"laptop", "smartphone", "headphones", "television", "camera", "monitor", "tablet"}},
	{Clothing, []string{"shoes", "jacket", "handbag", "sunglasses", "backpack"}},
	{Furniture, []string{"chair", "table", "lamp"}},
	{Toys, []string{"toy", "game", "doll", "figurine"}},
	{Kitchenware, []string{"bottle", "cup", "plate", "pot", "pan"}},
	{Tools, []string{"keyboard", "mouse", "tool"}},
}

// Categorize maps a free-text object name to a category by substring match.
// Names matching no keyword fall into Default.
func Categorize(name string) Category {
	name = strings.ToLower(name)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(name, w) {
				return k.category
			}
		}
	}
	return Default
}

// LookupPrice returns the known price range for an exact normalized name.
func LookupPrice(name string) (PriceRange, bool) {
	r, ok := prices[name]
	return r, ok
}

// ProfileFor returns the cost range and import locations for c, using the
// Default profile for unknown categories. The returned slice is a copy.
func ProfileFor(c Category) Profile {
	cost, ok := costs[c]
	if !ok {
		c = Default
		cost = costs[Default]
	}
	locs, ok := locations[c]
	if !ok || len(locs) == 0 {
		locs = locations[Default]
	}
	return Profile{
		Category:  c,
		Cost:      cost,
		Locations: append([]string(nil), locs...),
	}
}

// Categories lists every category, Default last.
func Categories() []Category {
	out := make([]Category, 0, len(keywords)+1)
	for _, k := range keywords {
		out = append(out, k.category)
	}
	return append(out, Default)
}
