// Package estimate is the local prediction path: it turns an image
// classifier's top label into a price estimate using the catalog.
package estimate

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/raine/pricesnap/internal/catalog"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
)

// defaultScore replaces a missing or unusable classifier score.
const defaultScore = 0.5

// Estimator synthesizes a Result from a classifier label. The zero value is
// ready to use.
type Estimator struct {
	// Uniform returns draws from [0,1). Defaults to math/rand/v2.
	Uniform func() float64
}

func (e *Estimator) draw() float64 {
	if e.Uniform == nil {
		return rand.Float64()
	}
	return e.Uniform()
}

// Estimate never fails. Any panic while estimating yields the sentinel result.
func (e *Estimator) Estimate(label string, score float64) (result prediction.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("label", label).Msg("local estimate panicked")
			result = prediction.Sentinel()
		}
	}()

	if strings.TrimSpace(label) == "" || math.IsNaN(score) {
		label, score = prediction.UnknownObject, defaultScore
	}

	name := normalizeLabel(label)
	priceRange, ok := catalog.LookupPrice(name)
	if !ok {
		priceRange = catalog.PriceRange{
			Min: math.Round(20 + e.draw()*180),
			Max: math.Round(200 + e.draw()*800),
		}
	}

	// Samples from the upper half of the range: midpoint plus up to half the span.
	half := (priceRange.Max - priceRange.Min) * 0.5
	mid := priceRange.Min + half
	price := math.Round(mid + e.draw()*half)

	profile := catalog.ProfileFor(catalog.Categorize(name))
	pct := profile.Cost.MinPercent + e.draw()*(profile.Cost.MaxPercent-profile.Cost.MinPercent)
	cost := price * pct / 100

	return prediction.Result{
		ObjectName:        prediction.Capitalize(name),
		Price:             prediction.FormatUSD(price),
		ManufacturingCost: prediction.FormatUSD(cost),
		ImportLocation:    pick(profile.Locations, e.draw()),
		Confidence:        prediction.ClampConfidence(score),
	}
}

// normalizeLabel keeps the text before the first comma, turns underscores
// into spaces and lower-cases it: "laptop, notebook" -> "laptop".
func normalizeLabel(label string) string {
	name, _, _ := strings.Cut(label, ",")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(strings.ToLower(name))
}

func pick(items []string, u float64) string {
	if len(items) == 0 {
		return prediction.UnknownLocation
	}
	i := int(u * float64(len(items)))
	if i >= len(items) {
		i = len(items) - 1
	}
	if i < 0 {
		i = 0
	}
	return items[i]
}
