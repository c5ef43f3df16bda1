package llm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/raine/pricesnap/internal/catalog"
	"github.com/raine/pricesnap/internal/prediction"
)

// defaultConfidence is used when the model omits confidence or sends a
// non-numeric value.
const defaultConfidence = 0.8

var (
	errMissingName  = errors.New("reply is missing name")
	errMissingPrice = errors.New("reply is missing price")
)

// normalizeReply maps the decoded reply fields onto a Result.
func normalizeReply(fields map[string]any) (prediction.Result, error) {
	name := stringField(fields["name"])
	if name == "" {
		return prediction.Result{}, errMissingName
	}
	price := amountField(fields["price"])
	if price == "" {
		return prediction.Result{}, errMissingPrice
	}

	cost := amountField(fields["manufacturingCost"])
	if cost == "" {
		derived, err := deriveCost(name, price)
		if err != nil {
			return prediction.Result{}, err
		}
		cost = derived
	}

	location := stringField(fields["importLocation"])
	if location == "" {
		location = prediction.UnknownLocation
	}

	confidence := defaultConfidence
	if c, ok := fields["confidence"].(float64); ok && !math.IsNaN(c) {
		confidence = prediction.ClampConfidence(c)
	}

	return prediction.Result{
		ObjectName:        prediction.Capitalize(name),
		Price:             price,
		ManufacturingCost: cost,
		ImportLocation:    location,
		Confidence:        confidence,
	}, nil
}

func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// amountField formats numbers as currency and prefixes strings with the
// currency symbol. Missing, empty and non-positive values yield "".
func amountField(v any) string {
	switch t := v.(type) {
	case float64:
		if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return prediction.FormatUSD(t)
	case string:
		amount := prediction.EnsureCurrency(t)
		if n, err := prediction.ParseUSD(amount); err == nil && n <= 0 {
			return ""
		}
		return amount
	default:
		return ""
	}
}

// deriveCost estimates a missing manufacturing cost from the retail price and
// the middle of the category's cost share.
func deriveCost(name, price string) (string, error) {
	amount, err := prediction.ParseUSD(price)
	if err != nil {
		return "", fmt.Errorf("reply is missing manufacturingCost and price is not numeric: %w", err)
	}
	profile := catalog.ProfileFor(catalog.Categorize(name))
	return prediction.FormatUSD(amount * profile.Cost.Mid() / 100), nil
}

// parseReply extracts and normalizes a model reply.
func parseReply(text string) (prediction.Result, string, error) {
	if strings.TrimSpace(text) == "" {
		return prediction.Result{}, "", errors.New("empty reply")
	}
	fields, strategy, err := extractJSONObject(text)
	if err != nil {
		return prediction.Result{}, "", err
	}
	res, err := normalizeReply(fields)
	if err != nil {
		return prediction.Result{}, strategy, err
	}
	return res, strategy, nil
}
