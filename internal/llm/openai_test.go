package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raine/pricesnap/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"prompt_tokens": 900, "completion_tokens": 40, "total_tokens": 940},
	}
}

func newOpenAIServer(t *testing.T, status int, body any, captured *chatRequest, auth *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

var testImage = prediction.NewImage([]byte("\xff\xd8\xff\xe0fake jpeg"), "")

func TestOpenAIPredictCoffeeMug(t *testing.T) {
	var req chatRequest
	var auth string
	ts := newOpenAIServer(t, http.StatusOK, chatReply(mugJSON), &req, &auth)

	p := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-test", BaseURL: ts.URL})
	out := p.Predict(context.Background(), testImage)

	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.Equal(t, prediction.SourceRemote, out.Source)
	assert.Equal(t, prediction.Result{
		ObjectName:        "Coffee mug",
		Price:             "$12.00",
		ManufacturingCost: "$3.00",
		ImportLocation:    "China",
		Confidence:        0.92,
	}, out.Result)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, 0.3, req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, systemPrompt, req.Messages[0].Content)

	// user content decodes generically as a list of parts
	parts, ok := req.Messages[1].Content.([]any)
	require.True(t, ok)
	require.Len(t, parts, 2)
	img := parts[1].(map[string]any)["image_url"].(map[string]any)["url"]
	assert.Equal(t, testImage.DataURI(), img)
}

func TestOpenAIPredictFencedReply(t *testing.T) {
	ts := newOpenAIServer(t, http.StatusOK, chatReply("```json\n"+mugJSON+"\n```"), nil, nil)
	out := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-test", BaseURL: ts.URL, Model: "gpt-4o-mini"}).
		Predict(context.Background(), testImage)
	require.True(t, out.OK())
	assert.Equal(t, "Coffee mug", out.Result.ObjectName)
}

func TestOpenAIPredictErrorStatus(t *testing.T) {
	body := map[string]any{"error": map[string]any{"message": "Incorrect API key provided", "type": "invalid_request_error"}}
	ts := newOpenAIServer(t, http.StatusUnauthorized, body, nil, nil)

	out := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-bad", BaseURL: ts.URL}).Predict(context.Background(), testImage)
	require.False(t, out.OK())
	assert.ErrorIs(t, out.Err, prediction.ErrTransport)
	assert.Contains(t, out.Err.Error(), "401")
	assert.Contains(t, out.Err.Error(), "Incorrect API key provided")
}

func TestOpenAIPredictUnparsableReply(t *testing.T) {
	ts := newOpenAIServer(t, http.StatusOK, chatReply("I cannot tell what this is."), nil, nil)
	out := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-test", BaseURL: ts.URL}).Predict(context.Background(), testImage)
	assert.ErrorIs(t, out.Err, prediction.ErrParse)
}

func TestOpenAIPredictNoChoices(t *testing.T) {
	ts := newOpenAIServer(t, http.StatusOK, map[string]any{"choices": []any{}}, nil, nil)
	out := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-test", BaseURL: ts.URL}).Predict(context.Background(), testImage)
	assert.ErrorIs(t, out.Err, prediction.ErrParse)
}

func TestOpenAIPredictMissingKeySendsNothing(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	out := NewOpenAIPredictor(OpenAIOpts{BaseURL: ts.URL}).Predict(context.Background(), testImage)
	assert.ErrorIs(t, out.Err, prediction.ErrConfiguration)
	assert.False(t, called)
}

func TestOpenAIPredictUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	out := NewOpenAIPredictor(OpenAIOpts{APIKey: "sk-test", BaseURL: url}).Predict(context.Background(), testImage)
	assert.ErrorIs(t, out.Err, prediction.ErrTransport)
}
