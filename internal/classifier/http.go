package classifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/rs/zerolog/log"
)

const DefaultEndpoint = "https://api-inference.huggingface.co/models/google/vit-base-patch16-224"

type HTTPOpts struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// HTTPClassifier posts the raw image to a hosted image-classification
// inference endpoint and reads back [{"label","score"}].
type HTTPClassifier struct {
	client   *resty.Client
	endpoint string
	token    string
}

func NewHTTPClassifier(opts HTTPOpts) *HTTPClassifier {
	c := &HTTPClassifier{endpoint: DefaultEndpoint, token: opts.Token}
	if opts.Endpoint != "" {
		c.endpoint = opts.Endpoint
	}
	c.client = resty.New().
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		c.client.SetTimeout(opts.Timeout)
	}
	return c
}

type inferenceError struct {
	Error string `json:"error"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) ([]Label, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	var labels []Label
	var apiErr inferenceError
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", prediction.DetectMIMEType(image)).
		SetBody(image).
		SetResult(&labels).
		SetError(&apiErr)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}

	start := time.Now()
	res, err := req.Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	log.Debug().
		Str("endpoint", c.endpoint).
		Int("status", res.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("classification request")

	if res.IsError() {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("classification endpoint returned %d: %s", res.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("classification endpoint returned %d", res.StatusCode())
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected classification status %d", res.StatusCode())
	}

	sortByScore(labels)
	return labels, nil
}
