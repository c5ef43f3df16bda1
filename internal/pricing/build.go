package pricing

import (
	"context"
	"fmt"

	"github.com/raine/pricesnap/internal/classifier"
	"github.com/raine/pricesnap/internal/config"
	"github.com/raine/pricesnap/internal/estimate"
	"github.com/raine/pricesnap/internal/llm"
	"github.com/rs/zerolog/log"
)

// NewRemotePredictor builds the predictor for the configured provider.
func NewRemotePredictor(ctx context.Context, cfg config.Config) (Predictor, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := llm.NewGeminiPredictor(ctx, llm.GeminiOpts{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIPredictor(llm.OpenAIOpts{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown prediction provider %q", cfg.Provider)
	}
}

// NewClassifier builds the configured local classifier.
func NewClassifier(cfg config.Config) classifier.Classifier {
	if cfg.LocalClassifier == config.ClassifierDNN {
		return classifier.NewDNNClassifier(cfg.DNNModelPath, cfg.DNNLabelsPath)
	}
	return classifier.NewHTTPClassifier(classifier.HTTPOpts{
		Endpoint: cfg.ClassifierURL,
		Token:    cfg.ClassifierToken,
	})
}

// FromConfig wires the remote and local predictors into a Service. The
// classifier is returned so the caller can warm it up and close it.
func FromConfig(ctx context.Context, cfg config.Config) (*Service, classifier.Classifier, error) {
	var remote Predictor
	if cfg.LocalOnly {
		log.Info().Msg("local-only mode, the vision model is not used")
	} else {
		var err error
		if remote, err = NewRemotePredictor(ctx, cfg); err != nil {
			return nil, nil, err
		}
		if !cfg.RemoteConfigured() {
			log.Warn().Str("provider", cfg.Provider).Msg("no API key configured, every photo will use the local classifier")
		}
	}

	cls := NewClassifier(cfg)
	local := estimate.NewLocalPredictor(cls, nil)
	svc := NewService(remote, local,
		WithRemoteTimeout(cfg.RemoteTimeout),
		WithLocalTimeout(cfg.LocalTimeout),
	)
	log.Info().
		Str("provider", cfg.Provider).
		Str("classifier", cfg.LocalClassifier).
		Dur("remoteTimeout", cfg.RemoteTimeout).
		Dur("localTimeout", cfg.LocalTimeout).
		Msg("pricing service initialized")
	return svc, cls, nil
}
