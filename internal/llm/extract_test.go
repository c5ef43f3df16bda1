package llm

import (
	"testing"

	"github.com/raine/pricesnap/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mugJSON = `{"name":"Coffee Mug","price":12,"manufacturingCost":3,"importLocation":"China","confidence":0.92}`

func TestParseReplyAcceptsWrappedJSON(t *testing.T) {
	want := prediction.Result{
		ObjectName:        "Coffee mug",
		Price:             "$12.00",
		ManufacturingCost: "$3.00",
		ImportLocation:    "China",
		Confidence:        0.92,
	}

	tests := []struct {
		name     string
		reply    string
		strategy string
	}{
		{"bare", mugJSON, "braces"},
		{"json fence", "```json\n" + mugJSON + "\n```", "json-fence"},
		{"untagged fence", "Sure:\n```\n" + mugJSON + "\n```", "any-fence"},
		{"other fence tag", "```javascript\n" + mugJSON + "\n```", "any-fence"},
		{"prose", "Here is my analysis: " + mugJSON + " Let me know if you need more.", "braces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, strategy, err := parseReply(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, want, res)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}

func TestParseReplyRejects(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"prose only", "I'm sorry, I can't identify this object.", errNoJSONObject},
		{"missing name", `{"price":"$10.00"}`, errMissingName},
		{"missing price", `{"name":"Lamp","manufacturingCost":"$4.00"}`, errMissingPrice},
		{"empty name", `{"name":"  ","price":5}`, errMissingName},
		{"zero price", `{"name":"Lamp","price":0}`, errMissingPrice},
		{"zero price string", `{"name":"Lamp","price":"$0.00"}`, errMissingPrice},
		{"negative price", `{"name":"Lamp","price":-5}`, errMissingPrice},
		{"negative price string", `{"name":"Lamp","price":"-5"}`, errMissingPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseReply(tt.reply)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := parseReply("   ")
	assert.Error(t, err)
}

func TestExtractFallsThroughInvalidCandidates(t *testing.T) {
	// the fenced block is not JSON, so the braces strategy is used
	reply := "```\nnot json\n```\nanswer: {\"name\":\"Lamp\",\"price\":\"20\"}"
	fields, strategy, err := extractJSONObject(reply)
	require.NoError(t, err)
	assert.Equal(t, "braces", strategy)
	assert.Equal(t, "Lamp", fields["name"])
}

func TestFirstObjectIgnoresBracesInStrings(t *testing.T) {
	got, ok := firstObject(`x {"name":"Mug {large}","note":"a \"}\" here"} trailing {"b":1}`)
	require.True(t, ok)
	assert.Equal(t, `{"name":"Mug {large}","note":"a \"}\" here"}`, got)

	_, ok = firstObject(`{"unterminated": true`)
	assert.False(t, ok)
}

func TestFirstObjectSkipsProseBraces(t *testing.T) {
	reply := `Here is the result {as requested}: {"name":"Lamp","price":20}`
	got, ok := firstObject(reply)
	require.True(t, ok)
	assert.Equal(t, `{"name":"Lamp","price":20}`, got)

	result, strategy, err := parseReply(reply)
	require.NoError(t, err)
	assert.Equal(t, "braces", strategy)
	assert.Equal(t, "Lamp", result.ObjectName)
	assert.Equal(t, "$20.00", result.Price)

	_, ok = firstObject("{not json} and {neither}")
	assert.False(t, ok)
}

func TestNormalizeReply(t *testing.T) {
	res, err := normalizeReply(map[string]any{
		"name":              "SONY headphones",
		"price":             "349.99",
		"manufacturingCost": "$120",
		"confidence":        "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sony headphones", res.ObjectName)
	assert.Equal(t, "$349.99", res.Price)
	assert.Equal(t, "$120", res.ManufacturingCost)
	assert.Equal(t, "Unknown", res.ImportLocation)
	assert.Equal(t, 0.8, res.Confidence)
	assert.NoError(t, res.Validate())
}

func TestNormalizeReplyReplacesNegativeCost(t *testing.T) {
	// electronics mid share is 45%
	res, err := normalizeReply(map[string]any{"name": "Laptop", "price": 1000.0, "manufacturingCost": -3.0})
	require.NoError(t, err)
	assert.Equal(t, "$450.00", res.ManufacturingCost)
}

func TestNormalizeReplyClampsConfidence(t *testing.T) {
	res, err := normalizeReply(map[string]any{"name": "Mug", "price": 12.0, "manufacturingCost": 3.0, "confidence": 92.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestNormalizeReplyDerivesCost(t *testing.T) {
	// electronics mid share is 45%
	res, err := normalizeReply(map[string]any{"name": "Laptop", "price": "$1,000.00"})
	require.NoError(t, err)
	assert.Equal(t, "$450.00", res.ManufacturingCost)

	_, err = normalizeReply(map[string]any{"name": "Laptop", "price": "around a thousand"})
	assert.Error(t, err)
}

func TestCalculateCost(t *testing.T) {
	assert.InDelta(t, 0.0075, calculateCost("gpt-4o", 1000, 500), 1e-9)
	assert.Equal(t, 0.0, calculateCost("some-local-model", 1000, 500))
}
