package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiOpts struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint.
	BaseURL string
}

// GeminiPredictor prices the object in an image with Google's Gemini API.
type GeminiPredictor struct {
	client *genai.Client
	model  string
}

// NewGeminiPredictor creates a Gemini-based predictor. Without an API key no
// client is created and every prediction fails with a configuration error.
func NewGeminiPredictor(ctx context.Context, opts GeminiOpts) (*GeminiPredictor, error) {
	g := &GeminiPredictor{model: DefaultGeminiModel}
	if opts.Model != "" {
		g.model = opts.Model
	}
	if opts.APIKey == "" {
		return g, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiPredictor) Predict(ctx context.Context, img prediction.Image) prediction.Outcome {
	const op = "gemini.predict"
	if g.client == nil {
		return prediction.Failure(prediction.NewError(op, prediction.ErrConfiguration, errMissingAPIKey))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(userPrompt),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		ResponseMIMEType:  "application/json",
		// 2.5 models spend thinking tokens out of MaxOutputTokens
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return prediction.Failure(prediction.NewError(op, prediction.ErrTransport, fmt.Errorf("failed to generate content: %w", err)))
	}
	if len(result.Candidates) == 0 {
		return prediction.Failure(prediction.NewError(op, prediction.ErrParse, errors.New("no response from Gemini")))
	}
	if c := result.Candidates[0]; c.Content == nil || len(c.Content.Parts) == 0 {
		log.Warn().Str("model", g.model).Str("finishReason", string(c.FinishReason)).Msg("empty vision reply")
		return prediction.Failure(prediction.NewError(op, prediction.ErrParse, fmt.Errorf("empty response from Gemini (finish reason %s)", c.FinishReason)))
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateCost(g.model, usage.InputTokens, usage.OutputTokens)
	}

	text := result.Text()
	parsed, strategy, err := parseReply(text)
	log.Info().
		Str("model", g.model).
		Dur("duration", time.Since(start)).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Str("strategy", strategy).
		Msg("vision llm call")
	if err != nil {
		log.Debug().Str("content", text).Msg("unparsable vision reply")
		return prediction.Failure(prediction.NewError(op, prediction.ErrParse, err))
	}

	return prediction.Success(prediction.SourceRemote, parsed)
}
