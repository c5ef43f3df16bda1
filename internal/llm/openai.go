package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o"
)

var errMissingAPIKey = errors.New("missing API key")

type OpenAIOpts struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIPredictor asks an OpenAI-compatible chat completions endpoint to
// price the object in an image.
type OpenAIPredictor struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewOpenAIPredictor(opts OpenAIOpts) *OpenAIPredictor {
	p := &OpenAIPredictor{apiKey: opts.APIKey, model: DefaultOpenAIModel}
	if opts.Model != "" {
		p.model = opts.Model
	}
	baseURL := DefaultOpenAIBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	p.client = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		p.client.SetTimeout(opts.Timeout)
	}
	return p
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage content is a string for system turns and a list of parts for
// the user turn.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func newChatRequest(model string, img prediction.Image) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: img.DataURI()}},
			}},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	}
}

// Predict never sends a request without a credential.
func (p *OpenAIPredictor) Predict(ctx context.Context, img prediction.Image) prediction.Outcome {
	const op = "openai.predict"
	if p.apiKey == "" {
		return prediction.Failure(prediction.NewError(op, prediction.ErrConfiguration, errMissingAPIKey))
	}

	var out chatResponse
	var apiErr apiError
	start := time.Now()
	res, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetBody(newChatRequest(p.model, img)).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return prediction.Failure(prediction.NewError(op, prediction.ErrTransport, fmt.Errorf("request failed: %w", err)))
	}
	if res.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = res.String()
		}
		return prediction.Failure(prediction.NewError(op, prediction.ErrTransport,
			fmt.Errorf("OpenAI API error: %d: %s", res.StatusCode(), msg)))
	}

	usage := Usage{
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
		TotalTokens:  out.Usage.TotalTokens,
	}
	usage.CostUSD = calculateCost(p.model, usage.InputTokens, usage.OutputTokens)

	if len(out.Choices) == 0 {
		return prediction.Failure(prediction.NewError(op, prediction.ErrParse, errors.New("no choices in response")))
	}
	content := out.Choices[0].Message.Content

	result, strategy, err := parseReply(content)
	log.Info().
		Str("model", p.model).
		Int("status", res.StatusCode()).
		Dur("duration", time.Since(start)).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Str("strategy", strategy).
		Msg("vision llm call")
	if err != nil {
		log.Debug().Str("content", content).Msg("unparsable vision reply")
		return prediction.Failure(prediction.NewError(op, prediction.ErrParse, err))
	}

	return prediction.Success(prediction.SourceRemote, result)
}
