// Package llm implements the remote prediction path: a hosted multimodal
// model is asked to identify the object in a photo and estimate its price.
package llm

import (
	"strings"

	"github.com/lithammer/dedent"
)

// Usage contains token usage and cost information for one model call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// modelPrice is the list price per million tokens.
type modelPrice struct {
	input  float64
	output float64
}

var modelPrices = map[string]modelPrice{
	"gpt-4o":           {input: 2.50, output: 10.00},
	"gpt-4o-mini":      {input: 0.15, output: 0.60},
	"gemini-2.5-flash": {input: 0.30, output: 2.50},
}

func calculateCost(model string, inputTokens, outputTokens int64) float64 {
	p, ok := modelPrices[model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1_000_000 * p.input
	outputCost := float64(outputTokens) / 1_000_000 * p.output
	return inputCost + outputCost
}

const (
	maxOutputTokens = 500
	temperature     = 0.3
)

var systemPrompt = strings.TrimSpace(dedent.Dedent(`
	You are a product analysis AI specializing in identifying objects from images and providing accurate price estimates, manufacturing costs, and likely import origins.

	Analyze the image with high accuracy and provide:
	1. The specific name of the object
	2. A realistic retail price in USD based on current market values
	3. An estimated manufacturing cost in USD
	4. The most likely country or region of manufacture
	5. Your confidence level (0.0-1.0)

	Your output must be a valid JSON object with the keys: name, price, manufacturingCost, importLocation, and confidence.
	For prices, include the dollar sign and decimal places: "$XX.XX"
	Be as specific as possible about the object, including brand name if recognizable.
`))

const userPrompt = "What is this object? Provide ONLY a JSON response with these exact keys: name, price, manufacturingCost, importLocation, confidence"
